package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parsepro/resume-analyzer/internal/config"
	"parsepro/resume-analyzer/internal/handlers"
	"parsepro/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Analysis.ProfilesFile != "" {
		profileFile, err := config.LoadProfileFile(cfg.Analysis.ProfilesFile)
		if err != nil {
			log.Fatalf("❌ Failed to load skill profiles: %v", err)
		}
		for name, categories := range profileFile.Profiles {
			if err := services.RegisterSkillProfile(name, categories); err != nil {
				log.Fatalf("❌ Invalid skill profile: %v", err)
			}
		}
		profileFile.Apply(cfg)
		log.Printf("✅ Loaded %d skill profiles from %s", len(profileFile.Profiles), cfg.Analysis.ProfilesFile)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	// Initialize services
	profile := services.LookupSkillProfile(cfg.Analysis.SkillProfile)

	completionClient, err := newCompletionClient(context.Background(), cfg, profile)
	if err != nil {
		log.Fatalf("❌ Failed to initialize completion client: %v", err)
	}

	parser := newResumeParser(cfg)

	analyzer := services.NewAnalyzerService(completionClient, parser, metrics, services.AnalyzerOptions{
		Timeout:             cfg.AI.Timeout,
		MaxInputChars:       cfg.Analysis.MaxInputChars,
		SummarizeAboveChars: cfg.Analysis.SummarizeAboveChars,
		ChunkSize:           cfg.Analysis.ChunkSize,
		Profile:             profile,
	})
	log.Printf("✅ Analyzer initialized (profile=%s, resume mode=%s)", profile.Name, cfg.Analysis.ResumeMode)

	documents := handlers.NewDocumentReader(
		services.NewUploadService(cfg.Storage.MaxFileSize),
		services.NewTextExtractor(),
		metrics,
	)

	mode := "live"
	if cfg.AI.MockMode {
		mode = "mock"
	}

	routes := &handlers.Routes{
		Keywords: handlers.NewKeywordHandler(documents, cfg.Analysis.Keywords),
		Resume:   handlers.NewResumeHandler(analyzer, documents, cfg.Analysis.ResumeMode),
		Chat:     handlers.NewChatHandler(analyzer, cfg.Analysis.MinChatResumeChars),
		Mode:     mode,
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	routes.Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cfg.Server.StaticDir != "" {
		if _, err := os.Stat(cfg.Server.StaticDir); err == nil {
			app.Static("/", cfg.Server.StaticDir)
			log.Printf("📁 Serving static files from %s", cfg.Server.StaticDir)
		}
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s (%s mode)\n", addr, mode)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newCompletionClient(ctx context.Context, cfg *config.Config, profile services.SkillProfile) (services.CompletionClient, error) {
	if cfg.AI.MockMode {
		log.Println("🧪 MOCK_MODE enabled, serving fixture completions")
		return services.NewFixtureService(profile), nil
	}

	switch cfg.AI.Provider {
	case config.ProviderDeepseek:
		log.Printf("✅ DeepSeek client initialized (model=%s)", cfg.ModelName())
		return services.NewDeepseekService(&http.Client{}, cfg.AI.BaseURL, cfg.AI.APIKey, cfg.ModelName(), cfg.AI.Temperature), nil
	default:
		client, err := services.NewGeminiService(ctx, cfg.AI.APIKey, cfg.ModelName(), cfg.AI.Temperature)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Gemini AI initialized (model=%s)", cfg.ModelName())
		return client, nil
	}
}

func newResumeParser(cfg *config.Config) services.ResumeParser {
	switch {
	case cfg.AI.MockMode:
		return services.NewFixtureResumeParser()
	case cfg.Parser.URL != "":
		return services.NewResumeParserService(&http.Client{Timeout: cfg.AI.Timeout}, cfg.Parser.URL, cfg.Parser.APIKey)
	default:
		log.Println("⚠️  RESUME_PARSER_URL not set, ATS summaries disabled")
		return nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
