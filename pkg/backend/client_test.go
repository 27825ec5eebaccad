package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cv-architect/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(srv.URL, zap.NewNop())
}

func TestExtractCVDataNormalizesPartialResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cv/extract-cv-data", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "John Doe, Software Engineer...", req["cv_text"])
		assert.Equal(t, "Looking for a backend engineer...", req["job_description"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"personal": {"name": "John Doe"}}`)
	})

	doc, err := c.ExtractCVData(context.Background(), "John Doe, Software Engineer...", "Looking for a backend engineer...")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", doc.Personal.Name)
	assert.Equal(t, model.DefaultEmail, doc.Personal.Email)
	assert.Empty(t, doc.Experience)
	require.NotNil(t, doc.Skills.Technical)
	assert.Empty(t, doc.Skills.Technical)
}

func TestNon2xxBecomesTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "backend specific error body"}`, http.StatusBadGateway)
	})

	_, err := c.ExtractCVData(context.Background(), "text", "job")
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "extract-cv-data", te.Op)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	// the body is never interpreted
	assert.NotContains(t, err.Error(), "backend specific")
}

func TestTailorFromFileSendsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cv/tailor-from-file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Backend role", r.FormValue("job_description"))

		file, header, err := r.FormFile("cv_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake pdf bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"personal": {"name": "Jane"}}`)
	})

	doc, err := c.TailorFromFile(context.Background(), "cv.pdf", strings.NewReader("fake pdf bytes"), "Backend role")
	require.NoError(t, err)
	assert.Equal(t, "Jane", doc.Personal.Name)
}

func TestRephraseSection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cv/rephrase-section", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "summary", req["section_type"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RephraseResult{
			OriginalContent:  req["section_content"],
			RephrasedContent: "Polished summary.",
			SectionType:      req["section_type"],
		})
	})

	res, err := c.RephraseSection(context.Background(), "rough summary", "summary", "job")
	require.NoError(t, err)
	assert.Equal(t, "rough summary", res.OriginalContent)
	assert.Equal(t, "Polished summary.", res.RephrasedContent)
}

func TestEvaluateCV(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/evaluation/cv", r.URL.Path)
		var req struct {
			JobDescription string       `json:"job_description"`
			CVJSON         model.CVData `json:"cv_json"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Backend role", req.JobDescription)
		assert.Equal(t, model.DefaultName, req.CVJSON.Personal.Name)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"individual_evaluations": [
				{"persona": "Strict Hiring Manager", "score": 6.5, "justification": "thin experience"},
				{"persona": "Creative Recruiter", "score": 8, "justification": "good narrative"},
				{"persona": "Senior Technical Lead", "score": 7, "justification": "solid stack"}
			],
			"average_score": 7.17
		}`)
	})

	ev, err := c.EvaluateCV(context.Background(), "Backend role", model.Default())
	require.NoError(t, err)
	require.Len(t, ev.IndividualEvaluations, 3)
	assert.Equal(t, "Strict Hiring Manager", ev.IndividualEvaluations[0].Persona)
	assert.InDelta(t, 7.17, ev.AverageScore, 0.001)
}

func TestGeneratePDFReturnsRawBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdf/generate", r.URL.Path)
		var req struct {
			TemplateID string       `json:"templateId"`
			Data       model.CVData `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "classic", req.TemplateID)

		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	})

	pdf, err := c.GeneratePDF(context.Background(), "classic", model.Default())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
}

func TestListTemplates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pdf/templates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"templates": ["classic", "modern", "compact"]}`)
	})

	templates, err := c.ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"classic", "modern", "compact"}, templates)
}

func TestDefaultBaseURL(t *testing.T) {
	t.Setenv("CV_BACKEND_URL", "")
	c := NewClient(zap.NewNop())
	assert.Equal(t, "http://localhost:8000", c.BaseURL)

	t.Setenv("CV_BACKEND_URL", "https://api.example.com")
	c = NewClient(zap.NewNop())
	assert.Equal(t, "https://api.example.com", c.BaseURL)
}
