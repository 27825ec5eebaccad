package usecase

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"cv-architect/internal/document"
	"cv-architect/internal/model"
	"cv-architect/internal/wizard"
	"cv-architect/pkg/backend"
)

// ErrSuperseded is returned when a document-replacing response resolves after
// a newer request for the same document was already issued. The stale result
// is dropped instead of overwriting the newer one.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Backend is the port to the CV backend; satisfied by *backend.Client.
type Backend interface {
	ExtractCVData(ctx context.Context, cvText, jobDescription string) (model.CVData, error)
	TailorCV(ctx context.Context, cvText, jobDescription string) (model.CVData, error)
	TailorFromFile(ctx context.Context, filename string, file io.Reader, jobDescription string) (model.CVData, error)
	RephraseSection(ctx context.Context, content, sectionType, jobDescription string) (backend.RephraseResult, error)
	EvaluateCV(ctx context.Context, jobDescription string, cv model.CVData) (backend.Evaluation, error)
	GeneratePDF(ctx context.Context, templateID string, data model.CVData) ([]byte, error)
	ListTemplates(ctx context.Context) ([]string, error)
}

// Session ties the document store, the wizard and the backend together for
// the profile. AI operations that replace the document carry a monotonically
// increasing request id; only the response matching the latest id is applied.
type Session struct {
	docs  *document.Store
	steps *wizard.Controller
	api   Backend
	log   *zap.Logger

	reqID atomic.Uint64
}

func NewSession(docs *document.Store, steps *wizard.Controller, api Backend, log *zap.Logger) *Session {
	return &Session{docs: docs, steps: steps, api: api, log: log}
}

func (s *Session) Documents() *document.Store { return s.docs }
func (s *Session) Wizard() *wizard.Controller { return s.steps }

// ExtractFromText extracts a structured CV from pasted text and replaces the
// document with the result.
func (s *Session) ExtractFromText(ctx context.Context, cvText, jobDescription string) (model.CVData, error) {
	id := s.reqID.Add(1)
	doc, err := s.api.ExtractCVData(ctx, cvText, jobDescription)
	if err != nil {
		return model.CVData{}, err
	}
	return s.apply(ctx, id, doc, jobDescription)
}

// TailorFromText rewrites pasted CV text against the job description and
// replaces the document.
func (s *Session) TailorFromText(ctx context.Context, cvText, jobDescription string) (model.CVData, error) {
	id := s.reqID.Add(1)
	doc, err := s.api.TailorCV(ctx, cvText, jobDescription)
	if err != nil {
		return model.CVData{}, err
	}
	return s.apply(ctx, id, doc, jobDescription)
}

// TailorFromFile extracts and tailors from an uploaded file and replaces the
// document.
func (s *Session) TailorFromFile(ctx context.Context, filename string, file io.Reader, jobDescription string) (model.CVData, error) {
	id := s.reqID.Add(1)
	doc, err := s.api.TailorFromFile(ctx, filename, file, jobDescription)
	if err != nil {
		return model.CVData{}, err
	}
	return s.apply(ctx, id, doc, jobDescription)
}

// Rephrase rewrites one section for the current job description. It does not
// touch the document; applying the suggestion is the user's call.
func (s *Session) Rephrase(ctx context.Context, content, sectionType string) (backend.RephraseResult, error) {
	return s.api.RephraseSection(ctx, content, sectionType, s.docs.Get().JobDescription)
}

// Evaluate runs the persona committee over the current document. If
// jobDescription is empty the document's stored one is used.
func (s *Session) Evaluate(ctx context.Context, jobDescription string) (backend.Evaluation, error) {
	doc := s.docs.Get()
	if jobDescription == "" {
		jobDescription = doc.JobDescription
	}
	return s.api.EvaluateCV(ctx, jobDescription, doc)
}

// GeneratePDF validates the current document against the CV schema, then
// delegates rendering to the backend. The wizard never blocks on invalid
// data, so this is where invalidity finally surfaces.
func (s *Session) GeneratePDF(ctx context.Context, templateID string) ([]byte, error) {
	doc := s.docs.Get()
	if err := model.Validate(doc); err != nil {
		return nil, err
	}
	return s.api.GeneratePDF(ctx, templateID, doc)
}

// ListTemplates proxies the backend's template catalogue.
func (s *Session) ListTemplates(ctx context.Context) ([]string, error) {
	return s.api.ListTemplates(ctx)
}

// apply commits a document-replacing response unless a newer request has been
// issued since, in which case the response is dropped.
func (s *Session) apply(ctx context.Context, id uint64, doc model.CVData, jobDescription string) (model.CVData, error) {
	if id != s.reqID.Load() {
		s.log.Info("dropping stale extraction response",
			zap.Uint64("request_id", id), zap.Uint64("latest_id", s.reqID.Load()))
		return model.CVData{}, ErrSuperseded
	}
	doc.JobDescription = jobDescription
	s.docs.Replace(ctx, doc)
	return doc, nil
}
