package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parsepro/resume-analyzer/internal/models"
	"parsepro/resume-analyzer/internal/services"
)

// KeywordHandler serves the local analysis endpoints. None of them call an
// external service.
type KeywordHandler struct {
	documents *DocumentReader
	keywords  []string
}

func NewKeywordHandler(documents *DocumentReader, keywords []string) *KeywordHandler {
	return &KeywordHandler{
		documents: documents,
		keywords:  keywords,
	}
}

// HandleAnalyze handles POST /analyze. The body is the raw resume text; a
// JSON body with resumeText is accepted as well.
func (h *KeywordHandler) HandleAnalyze(c *fiber.Ctx) error {
	text := string(c.Body())

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		var req struct {
			ResumeText string `json:"resumeText"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fmt.Errorf("%w: invalid request payload", services.ErrMissingInput))
		}
		text = req.ResumeText
	}

	if strings.TrimSpace(text) == "" {
		return respondError(c, fmt.Errorf("%w: resume text is required", services.ErrMissingInput))
	}

	return c.JSON(services.AnalyzeKeywords(text, h.keywords))
}

// HandleUploadPDF handles POST /upload-pdf.
func (h *KeywordHandler) HandleUploadPDF(c *fiber.Ctx) error {
	_, text, err := h.documents.Read(c)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(services.AnalyzeKeywords(text, h.keywords))
}

// HandleMatchJob handles POST /match-job.
func (h *KeywordHandler) HandleMatchJob(c *fiber.Ctx) error {
	var req models.MatchJobRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request payload", services.ErrMissingInput))
	}

	return c.JSON(services.MatchJob(req.ResumeText, req.JobDescription))
}
