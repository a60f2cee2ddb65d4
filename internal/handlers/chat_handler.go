package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"parsepro/resume-analyzer/internal/models"
	"parsepro/resume-analyzer/internal/services"
)

type ChatHandler struct {
	analyzer       services.AnalyzerService
	minResumeChars int
}

func NewChatHandler(analyzer services.AnalyzerService, minResumeChars int) *ChatHandler {
	return &ChatHandler{
		analyzer:       analyzer,
		minResumeChars: minResumeChars,
	}
}

// HandleChat handles POST /chat. Input is validated before any completion
// call is made.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request payload", services.ErrMissingInput))
	}

	if strings.TrimSpace(req.Message) == "" {
		return respondError(c, fmt.Errorf("%w: message is required", services.ErrMissingInput))
	}

	resume := strings.TrimSpace(req.ResumeContext())
	if resume == "" || utf8.RuneCountInString(resume) < h.minResumeChars {
		return respondError(c, fmt.Errorf("%w: resume context is missing or too short", services.ErrMissingInput))
	}

	result, err := h.analyzer.Chat(c.UserContext(), resume, req.ConversationHistory, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
