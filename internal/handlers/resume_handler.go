package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parsepro/resume-analyzer/internal/config"
	"parsepro/resume-analyzer/internal/models"
	"parsepro/resume-analyzer/internal/services"
)

type ResumeHandler struct {
	analyzer  services.AnalyzerService
	documents *DocumentReader
	mode      string
}

func NewResumeHandler(analyzer services.AnalyzerService, documents *DocumentReader, mode string) *ResumeHandler {
	return &ResumeHandler{
		analyzer:  analyzer,
		documents: documents,
		mode:      mode,
	}
}

// HandleAnalyzeResume handles POST /analyze-resume. The response shape is
// fixed by ANALYZE_RESUME_MODE.
func (h *ResumeHandler) HandleAnalyzeResume(c *fiber.Ctx) error {
	file, text, err := h.documents.Read(c)
	if err != nil {
		return respondError(c, err)
	}

	req := models.AnalysisRequest{
		ResumeText:     text,
		JobDescription: strings.TrimSpace(c.FormValue("jobDescription")),
		TargetRole:     strings.TrimSpace(c.FormValue("targetRole")),
	}

	if h.mode == config.ResumeModeMatch {
		result, err := h.analyzer.ResumeMatch(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	}

	result, err := h.analyzer.ResumeInsights(c.UserContext(), req, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleATSScan handles POST /ats-scan.
func (h *ResumeHandler) HandleATSScan(c *fiber.Ctx) error {
	_, text, err := h.documents.Read(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.analyzer.ATSScan(c.UserContext(), text)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// HandleCompareJD handles POST /compare-jd.
func (h *ResumeHandler) HandleCompareJD(c *fiber.Ctx) error {
	var req models.CompareJDRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request payload", services.ErrMissingInput))
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return respondError(c, fmt.Errorf("%w: resumeText is required", services.ErrMissingInput))
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return respondError(c, fmt.Errorf("%w: jobDescription is required", services.ErrMissingInput))
	}

	result, err := h.analyzer.CompareJD(c.UserContext(), req.ResumeText, req.JobDescription)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
