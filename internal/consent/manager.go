package consent

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"cv-architect/internal/storage"
)

// Category names one class of non-essential client-side storage/tracking.
type Category string

const (
	CategoryNecessary   Category = "necessary"
	CategoryAnalytics   Category = "analytics"
	CategoryMarketing   Category = "marketing"
	CategoryPreferences Category = "preferences"
)

// Preferences holds the per-category consent flags. Necessary is reported
// true in every reachable state and cannot be disabled by any caller.
type Preferences struct {
	Necessary   bool `json:"necessary"`
	Analytics   bool `json:"analytics"`
	Marketing   bool `json:"marketing"`
	Preferences bool `json:"preferences"`
}

func defaultPreferences() Preferences {
	return Preferences{Necessary: true}
}

// Manager owns the profile's consent state. It is constructed once at the
// composition root and passed by reference; it lives for the process.
//
// Until the user has explicitly decided, every non-necessary category reads
// as disallowed, regardless of the in-memory flag values.
type Manager struct {
	mu         sync.RWMutex
	prefs      Preferences
	decided    bool
	showBanner bool

	durable storage.Store
	log     *zap.Logger
}

func NewManager(durable storage.Store, log *zap.Logger) *Manager {
	return &Manager{
		prefs:      defaultPreferences(),
		showBanner: true,
		durable:    durable,
		log:        log,
	}
}

// Load restores a previously persisted decision. Corrupt or missing state
// leaves the manager undecided; failures are logged, never surfaced.
func (m *Manager) Load(ctx context.Context) {
	decided, ok, err := m.durable.Get(ctx, storage.KeyConsentDecided)
	if err != nil {
		m.log.Warn("consent state load failed", zap.Error(err))
		return
	}
	if !ok || decided != "true" {
		return
	}
	raw, ok, err := m.durable.Get(ctx, storage.KeyConsentPreferences)
	if err != nil || !ok {
		if err != nil {
			m.log.Warn("consent preferences load failed", zap.Error(err))
		}
		return
	}
	var prefs Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		m.log.Warn("stored consent preferences are corrupt, staying undecided", zap.Error(err))
		return
	}
	prefs.Necessary = true

	m.mu.Lock()
	m.prefs = prefs
	m.decided = true
	m.showBanner = false
	m.mu.Unlock()
}

// AcceptAll grants every category. Idempotent.
func (m *Manager) AcceptAll(ctx context.Context) {
	m.decide(ctx, Preferences{Necessary: true, Analytics: true, Marketing: true, Preferences: true})
}

// RejectAll denies every non-necessary category.
func (m *Manager) RejectAll(ctx context.Context) {
	m.decide(ctx, Preferences{Necessary: true})
}

// AcceptSelected persists the caller's choice with Necessary forced true.
func (m *Manager) AcceptSelected(ctx context.Context, prefs Preferences) {
	prefs.Necessary = true
	m.decide(ctx, prefs)
}

// ShowSettings re-opens the banner without discarding the persisted decision.
// Presentation only: gating keeps honoring the stored preferences.
func (m *Manager) ShowSettings() {
	m.mu.Lock()
	m.showBanner = true
	m.mu.Unlock()
}

// Reset returns to the undecided state and erases the durable decision.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	m.prefs = defaultPreferences()
	m.decided = false
	m.showBanner = true
	m.mu.Unlock()

	if err := m.durable.Delete(ctx, storage.KeyConsentDecided); err != nil {
		m.log.Warn("consent reset failed to erase decided flag", zap.Error(err))
	}
	if err := m.durable.Delete(ctx, storage.KeyConsentPreferences); err != nil {
		m.log.Warn("consent reset failed to erase preferences", zap.Error(err))
	}
}

// Allows reports whether a category is currently permitted. Fail-closed: no
// explicit decision means no for everything except necessary.
func (m *Manager) Allows(c Category) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c == CategoryNecessary {
		return true
	}
	if !m.decided {
		return false
	}
	switch c {
	case CategoryAnalytics:
		return m.prefs.Analytics
	case CategoryMarketing:
		return m.prefs.Marketing
	case CategoryPreferences:
		return m.prefs.Preferences
	default:
		return false
	}
}

func (m *Manager) CanUseAnalytics() bool   { return m.Allows(CategoryAnalytics) }
func (m *Manager) CanUseMarketing() bool   { return m.Allows(CategoryMarketing) }
func (m *Manager) CanUsePreferences() bool { return m.Allows(CategoryPreferences) }

// HasConsented reports whether an explicit decision exists.
func (m *Manager) HasConsented() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.decided
}

// ShowBanner reports whether the consent banner should be visible.
func (m *Manager) ShowBanner() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.showBanner
}

// Current returns a copy of the active preference flags.
func (m *Manager) Current() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs
}

func (m *Manager) decide(ctx context.Context, prefs Preferences) {
	m.mu.Lock()
	m.prefs = prefs
	m.decided = true
	m.showBanner = false
	m.mu.Unlock()

	if err := m.durable.Set(ctx, storage.KeyConsentDecided, "true"); err != nil {
		m.log.Warn("consent decision persistence failed", zap.Error(err))
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		m.log.Warn("consent preferences serialization failed", zap.Error(err))
		return
	}
	if err := m.durable.Set(ctx, storage.KeyConsentPreferences, string(b)); err != nil {
		m.log.Warn("consent preferences persistence failed", zap.Error(err))
	}
}
