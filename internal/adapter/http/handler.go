package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cv-architect/internal/consent"
	"cv-architect/internal/model"
	"cv-architect/internal/preview"
	"cv-architect/internal/usecase"
	"cv-architect/pkg/backend"
)

// Handler is the UI boundary: it performs the non-emptiness checks before any
// backend call and translates failures into dismissible messages. Everything
// past it assumes inputs were already checked.
type Handler struct {
	session *usecase.Session
	consent *consent.Manager
	gateway *consent.Gateway
	preview *preview.Renderer
	log     *zap.Logger
}

func NewHandler(session *usecase.Session, cm *consent.Manager, gw *consent.Gateway, pv *preview.Renderer, log *zap.Logger) *Handler {
	return &Handler{session: session, consent: cm, gateway: gw, preview: pv, log: log}
}

// Register wires all routes onto the given Fiber app.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", h.Health)

	v1.Get("/document", h.GetDocument)
	v1.Put("/document", h.PutDocument)
	v1.Delete("/document", h.ClearDocument)
	v1.Post("/document/extract", h.Extract)
	v1.Post("/document/tailor", h.Tailor)
	v1.Post("/document/tailor-file", h.TailorFile)
	v1.Post("/document/rephrase", h.Rephrase)
	v1.Post("/document/evaluate", h.Evaluate)
	v1.Get("/document/pdf", h.GeneratePDF)
	v1.Get("/document/preview", h.Preview)
	v1.Get("/templates", h.Templates)

	v1.Get("/wizard", h.WizardState)
	v1.Post("/wizard/next", h.WizardNext)
	v1.Post("/wizard/previous", h.WizardPrevious)

	v1.Get("/consent", h.ConsentState)
	v1.Post("/consent/accept-all", h.ConsentAcceptAll)
	v1.Post("/consent/reject-all", h.ConsentRejectAll)
	v1.Post("/consent/accept-selected", h.ConsentAcceptSelected)
	v1.Post("/consent/settings", h.ConsentShowSettings)
	v1.Post("/consent/reset", h.ConsentReset)

	v1.Get("/preferences/:key", h.GetPreference)
	v1.Put("/preferences/:key", h.SetPreference)
	v1.Post("/events", h.TrackEvent)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data":          h.session.Documents().Get(),
		"has_user_data": h.session.Documents().HasUserData(),
	})
}

func (h *Handler) PutDocument(c *fiber.Ctx) error {
	var doc model.CVData
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document payload"})
	}
	h.session.Documents().Replace(c.Context(), doc)
	return c.JSON(fiber.Map{"data": h.session.Documents().Get()})
}

func (h *Handler) ClearDocument(c *fiber.Ctx) error {
	h.session.Documents().Clear(c.Context())
	return c.JSON(fiber.Map{"data": h.session.Documents().Get()})
}

type extractReq struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) Extract(c *fiber.Ctx) error {
	var req extractReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.CVText == "" || req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cv_text and job_description are required"})
	}
	doc, err := h.session.ExtractFromText(c.Context(), req.CVText, req.JobDescription)
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(fiber.Map{"data": doc})
}

type tailorReq struct {
	UserCVText     string `json:"user_cv_text"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) Tailor(c *fiber.Ctx) error {
	var req tailorReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.UserCVText == "" || req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_cv_text and job_description are required"})
	}
	doc, err := h.session.TailorFromText(c.Context(), req.UserCVText, req.JobDescription)
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(fiber.Map{"data": doc})
}

func (h *Handler) TailorFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("cv_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cv_file is required"})
	}
	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_description is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unable to read cv_file"})
	}
	defer file.Close()

	doc, err := h.session.TailorFromFile(c.Context(), fileHeader.Filename, file, jobDescription)
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(fiber.Map{"data": doc})
}

type rephraseReq struct {
	SectionContent string `json:"section_content"`
	SectionType    string `json:"section_type"`
}

func (h *Handler) Rephrase(c *fiber.Ctx) error {
	var req rephraseReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.SectionContent == "" || req.SectionType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "section_content and section_type are required"})
	}
	res, err := h.session.Rephrase(c.Context(), req.SectionContent, req.SectionType)
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(res)
}

type evaluateReq struct {
	JobDescription string `json:"job_description"`
}

func (h *Handler) Evaluate(c *fiber.Ctx) error {
	var req evaluateReq
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.JobDescription == "" && h.session.Documents().Get().JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_description is required"})
	}
	res, err := h.session.Evaluate(c.Context(), req.JobDescription)
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	templateID := c.Query("template")
	if templateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "template is required"})
	}
	pdf, err := h.session.GeneratePDF(c.Context(), templateID)
	if err != nil {
		return h.backendError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	templateID := c.Query("template", "classic")
	html, err := h.preview.Render(templateID, h.session.Documents().Get())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	templates, err := h.session.ListTemplates(c.Context())
	if err != nil {
		return h.backendError(c, err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}

func (h *Handler) WizardState(c *fiber.Ctx) error {
	w := h.session.Wizard()
	return c.JSON(fiber.Map{"active": int(w.Active()), "steps": w.Steps()})
}

func (h *Handler) WizardNext(c *fiber.Ctx) error {
	h.session.Wizard().Next()
	return h.WizardState(c)
}

func (h *Handler) WizardPrevious(c *fiber.Ctx) error {
	h.session.Wizard().Previous()
	return h.WizardState(c)
}

func (h *Handler) ConsentState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"showBanner":   h.consent.ShowBanner(),
		"hasConsented": h.consent.HasConsented(),
		"preferences":  h.consent.Current(),
	})
}

func (h *Handler) ConsentAcceptAll(c *fiber.Ctx) error {
	h.consent.AcceptAll(c.Context())
	return h.ConsentState(c)
}

func (h *Handler) ConsentRejectAll(c *fiber.Ctx) error {
	h.consent.RejectAll(c.Context())
	return h.ConsentState(c)
}

func (h *Handler) ConsentAcceptSelected(c *fiber.Ctx) error {
	var prefs consent.Preferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid preferences payload"})
	}
	h.consent.AcceptSelected(c.Context(), prefs)
	return h.ConsentState(c)
}

func (h *Handler) ConsentShowSettings(c *fiber.Ctx) error {
	h.consent.ShowSettings()
	return h.ConsentState(c)
}

func (h *Handler) ConsentReset(c *fiber.Ctx) error {
	h.consent.Reset(c.Context())
	h.gateway.DeleteAllCookies(c.Context())
	return h.ConsentState(c)
}

func (h *Handler) GetPreference(c *fiber.Ctx) error {
	key := c.Params("key")
	def := c.Query("default")
	return c.JSON(fiber.Map{"key": key, "value": h.gateway.GetPreference(c.Context(), key, def)})
}

type preferenceReq struct {
	Value string `json:"value"`
}

func (h *Handler) SetPreference(c *fiber.Ctx) error {
	var req preferenceReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	key := c.Params("key")
	h.gateway.SetPreference(c.Context(), key, req.Value)
	// a denied write is a silent no-op, so report the effective value
	return c.JSON(fiber.Map{"key": key, "value": h.gateway.GetPreference(c.Context(), key, "")})
}

type eventReq struct {
	Name      string            `json:"name"`
	Props     map[string]string `json:"props"`
	Marketing bool              `json:"marketing"`
}

func (h *Handler) TrackEvent(c *fiber.Ctx) error {
	var req eventReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Marketing {
		h.gateway.TrackMarketingEvent(req.Name, req.Props)
	} else {
		h.gateway.TrackEvent(req.Name, req.Props)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// backendError maps failures onto the taxonomy: transport errors become a
// generic message naming the operation, superseded responses tell the caller
// a newer request won, everything else is a plain 500. Nothing here touches
// the document.
func (h *Handler) backendError(c *fiber.Ctx, err error) error {
	var te *backend.TransportError
	if errors.As(err, &te) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("The %s operation failed. Please try again.", te.Op),
		})
	}
	if errors.Is(err, usecase.ErrSuperseded) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A newer request replaced this one.",
		})
	}
	h.log.Error("operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
