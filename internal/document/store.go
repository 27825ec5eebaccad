package document

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"cv-architect/internal/model"
	"cv-architect/internal/storage"
)

// Store owns the canonical in-progress CV document. The in-memory value is
// authoritative for the session; the durable copy is a best-effort
// cross-session cache, so persistence failures are logged and swallowed.
//
// HasUserData is an explicit flag set on the first real mutation. It replaces
// comparing fields against placeholder strings, which breaks for a user
// literally named "Your Name".
type Store struct {
	mu          sync.RWMutex
	doc         model.CVData
	hasUserData bool
	subscribers []func(model.CVData)

	durable storage.Store
	log     *zap.Logger
}

// envelope is the persisted shape: document plus the user-data flag.
type envelope struct {
	Data        model.CVData `json:"data"`
	HasUserData bool         `json:"has_user_data"`
}

func NewStore(durable storage.Store, log *zap.Logger) *Store {
	return &Store{doc: model.Default(), durable: durable, log: log}
}

// Load restores the document from durable storage. A missing or malformed
// blob falls back to the default document; the failure is logged, never
// surfaced.
func (s *Store) Load(ctx context.Context) {
	raw, ok, err := s.durable.Get(ctx, storage.KeyDocument)
	if err != nil {
		s.log.Warn("document load failed, using defaults", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.log.Warn("stored document is corrupt, using defaults", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.doc = env.Data
	s.hasUserData = env.HasUserData
	s.mu.Unlock()
}

// Get returns a snapshot of the current document.
func (s *Store) Get() model.CVData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Store) HasUserData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasUserData
}

// Replace swaps in a whole new document, marks it as user data, persists it
// and notifies subscribers. The in-memory update always wins: a failed
// durable write leaves the session value intact.
func (s *Store) Replace(ctx context.Context, doc model.CVData) {
	s.mu.Lock()
	s.doc = doc
	s.hasUserData = true
	snapshot := s.doc
	s.mu.Unlock()

	s.persist(ctx, snapshot, true)
	s.notify(snapshot)
}

// Update applies an in-place mutation under the lock, then persists and
// notifies like Replace.
func (s *Store) Update(ctx context.Context, fn func(*model.CVData)) {
	s.mu.Lock()
	fn(&s.doc)
	s.hasUserData = true
	snapshot := s.doc
	s.mu.Unlock()

	s.persist(ctx, snapshot, true)
	s.notify(snapshot)
}

// Clear resets to the default document and removes the durable copy.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.doc = model.Default()
	s.hasUserData = false
	snapshot := s.doc
	s.mu.Unlock()

	if err := s.durable.Delete(ctx, storage.KeyDocument); err != nil {
		s.log.Warn("document clear failed in durable storage", zap.Error(err))
	}
	s.notify(snapshot)
}

// Subscribe registers a callback invoked after every mutation with the new
// snapshot. Not safe to call concurrently with mutations; wire subscribers at
// composition time.
func (s *Store) Subscribe(fn func(model.CVData)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) persist(ctx context.Context, doc model.CVData, hasUserData bool) {
	b, err := json.Marshal(envelope{Data: doc, HasUserData: hasUserData})
	if err != nil {
		s.log.Warn("document serialization failed", zap.Error(err))
		return
	}
	if err := s.durable.Set(ctx, storage.KeyDocument, string(b)); err != nil {
		s.log.Warn("document persistence failed", zap.Error(err))
	}
}

func (s *Store) notify(doc model.CVData) {
	for _, fn := range s.subscribers {
		fn(doc)
	}
}
