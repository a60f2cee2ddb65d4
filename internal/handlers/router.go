package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Routes holds every handler the API exposes.
type Routes struct {
	Keywords *KeywordHandler
	Resume   *ResumeHandler
	Chat     *ChatHandler
	Mode     string
}

// Register mounts the analysis endpoints and the health check on app.
func (r *Routes) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
			"mode":   r.Mode,
		})
	})

	app.Post("/analyze", r.Keywords.HandleAnalyze)
	app.Post("/upload-pdf", r.Keywords.HandleUploadPDF)
	app.Post("/match-job", r.Keywords.HandleMatchJob)

	app.Post("/analyze-resume", r.Resume.HandleAnalyzeResume)
	app.Post("/ats-scan", r.Resume.HandleATSScan)
	app.Post("/compare-jd", r.Resume.HandleCompareJD)

	app.Post("/chat", r.Chat.HandleChat)
}
