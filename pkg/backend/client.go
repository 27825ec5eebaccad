package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"cv-architect/internal/model"
)

// TransportError is any non-2xx answer from the backend. The client never
// interprets domain-specific error bodies; the operation name and status code
// are all a caller gets.
type TransportError struct {
	Op         string
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
}

// Client talks to the CV backend over its fixed JSON contract. It is
// stateless: one function per backend capability, no retries, no request
// coordination. Inputs are validated for non-emptiness at the UI boundary,
// not here.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.Logger
}

// NewClient reads the base URL from CV_BACKEND_URL, falling back to the local
// development endpoint.
func NewClient(log *zap.Logger) *Client {
	base := os.Getenv("CV_BACKEND_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	return NewClientWithBaseURL(base, log)
}

func NewClientWithBaseURL(base string, log *zap.Logger) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// ExtractCVData asks the backend to extract a structured CV from free text.
// The response always passes through model.Normalize, so a partial extraction
// yields placeholder-filled fields, never missing ones.
func (c *Client) ExtractCVData(ctx context.Context, cvText, jobDescription string) (model.CVData, error) {
	raw, err := c.postJSON(ctx, "extract-cv-data", "/cv/extract-cv-data", map[string]string{
		"cv_text":         cvText,
		"job_description": jobDescription,
	})
	if err != nil {
		return model.CVData{}, err
	}
	return model.Normalize(raw), nil
}

// TailorCV rewrites full CV text against a job description and returns the
// tailored structured document.
func (c *Client) TailorCV(ctx context.Context, cvText, jobDescription string) (model.CVData, error) {
	raw, err := c.postJSON(ctx, "tailor", "/cv/tailor", map[string]string{
		"user_cv_text":    cvText,
		"job_description": jobDescription,
	})
	if err != nil {
		return model.CVData{}, err
	}
	return model.Normalize(raw), nil
}

// TailorFromFile uploads a CV file (pdf or docx) for extraction and
// tailoring in one step.
func (c *Client) TailorFromFile(ctx context.Context, filename string, file io.Reader, jobDescription string) (model.CVData, error) {
	const op = "tailor-from-file"

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("cv_file", filename)
	if err != nil {
		return model.CVData{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return model.CVData{}, err
	}
	if err := w.WriteField("job_description", jobDescription); err != nil {
		return model.CVData{}, err
	}
	if err := w.Close(); err != nil {
		return model.CVData{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cv/tailor-from-file", &body)
	if err != nil {
		return model.CVData{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	respBody, err := c.do(req, op)
	if err != nil {
		return model.CVData{}, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return model.CVData{}, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return model.Normalize(raw), nil
}

// RephraseResult carries one rewritten section next to its original.
type RephraseResult struct {
	OriginalContent  string `json:"original_content"`
	RephrasedContent string `json:"rephrased_content"`
	SectionType      string `json:"section_type"`
}

// RephraseSection rewrites one named section of text for the target job.
func (c *Client) RephraseSection(ctx context.Context, content, sectionType, jobDescription string) (RephraseResult, error) {
	const op = "rephrase-section"
	respBody, err := c.post(ctx, op, "/cv/rephrase-section", map[string]string{
		"section_content": content,
		"section_type":    sectionType,
		"job_description": jobDescription,
	})
	if err != nil {
		return RephraseResult{}, err
	}
	var out RephraseResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return RephraseResult{}, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return out, nil
}

// PersonaEvaluation is one committee member's verdict.
type PersonaEvaluation struct {
	Persona       string  `json:"persona"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// Evaluation is the committee result: per-persona scores plus the average.
type Evaluation struct {
	IndividualEvaluations []PersonaEvaluation `json:"individual_evaluations"`
	AverageScore          float64             `json:"average_score"`
}

// EvaluateCV runs the multi-persona committee evaluation of a CV against a
// job description.
func (c *Client) EvaluateCV(ctx context.Context, jobDescription string, cv model.CVData) (Evaluation, error) {
	const op = "evaluate-cv"
	respBody, err := c.post(ctx, op, "/evaluation/cv", map[string]interface{}{
		"job_description": jobDescription,
		"cv_json":         cv,
	})
	if err != nil {
		return Evaluation{}, err
	}
	var out Evaluation
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Evaluation{}, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return out, nil
}

// GeneratePDF materializes the document as a PDF under the named template.
func (c *Client) GeneratePDF(ctx context.Context, templateID string, data model.CVData) ([]byte, error) {
	return c.post(ctx, "generate-pdf", "/pdf/generate", map[string]interface{}{
		"templateId": templateID,
		"data":       data,
	})
}

// ListTemplates returns the backend's available PDF template identifiers.
func (c *Client) ListTemplates(ctx context.Context) ([]string, error) {
	const op = "list-templates"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/pdf/templates", nil)
	if err != nil {
		return nil, err
	}
	respBody, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	var out struct {
		Templates []string `json:"templates"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return out.Templates, nil
}

// postJSON posts a payload and decodes the response into a generic map for
// normalization.
func (c *Client) postJSON(ctx context.Context, op, path string, payload interface{}) (map[string]interface{}, error) {
	respBody, err := c.post(ctx, op, path, payload)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return raw, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload interface{}) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("backend call failed",
			zap.String("op", op), zap.Int("status", resp.StatusCode))
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}
	return body, nil
}
