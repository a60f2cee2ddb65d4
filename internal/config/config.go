package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and handed to every component that needs
// it. Nothing in request handling reads the environment directly.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Analysis AnalysisConfig
	Parser   ParserConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	StaticDir string
}

type AIConfig struct {
	// MockMode serves deterministic fixtures instead of calling the provider.
	MockMode    bool
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
}

type AnalysisConfig struct {
	MaxInputChars       int
	SummarizeAboveChars int
	ChunkSize           int
	SkillProfile        string
	ProfilesFile        string
	ResumeMode          string
	Keywords            []string
	MinChatResumeChars  int
	CustomProfiles      []string
}

type ParserConfig struct {
	URL    string
	APIKey string
}

type StorageConfig struct {
	MaxFileSize int64
}

const (
	ProviderGemini   = "gemini"
	ProviderDeepseek = "deepseek"

	ResumeModeInsights = "insights"
	ResumeModeMatch    = "match"
)

// BuiltinSkillProfiles are the skill profiles available without a profile file.
var BuiltinSkillProfiles = []string{"tech", "business", "science"}

var ErrInvalidConfig = errors.New("invalid config")

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "3000"),
			Env:       getEnv("ENV", "development"),
			StaticDir: getEnv("STATIC_DIR", "./public"),
		},
		AI: AIConfig{
			MockMode:    getEnvAsMode("MOCK_MODE", true),
			Provider:    strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
			APIKey:      getEnv("AI_API_KEY", getEnv("GEMINI_API_KEY", "")),
			Model:       getEnv("AI_MODEL", ""),
			BaseURL:     getEnv("AI_BASE_URL", ""),
			Timeout:     getEnvAsDuration("COMPLETION_TIMEOUT", "45s"),
			Temperature: getEnvAsFloat32("AI_TEMPERATURE", 0.3),
		},
		Analysis: AnalysisConfig{
			MaxInputChars:       getEnvAsInt("MAX_INPUT_CHARS", 12000),
			SummarizeAboveChars: getEnvAsInt("SUMMARIZE_ABOVE_CHARS", 16000),
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 6000),
			SkillProfile:        strings.ToLower(getEnv("SKILL_PROFILE", "tech")),
			ProfilesFile:        getEnv("SKILL_PROFILES_FILE", ""),
			ResumeMode:          strings.ToLower(getEnv("ANALYZE_RESUME_MODE", ResumeModeInsights)),
			Keywords:            getEnvAsList("KEYWORDS", "agile,docker,javascript,sql,python"),
			MinChatResumeChars:  getEnvAsInt("MIN_CHAT_RESUME_CHARS", 50),
		},
		Parser: ParserConfig{
			URL:    getEnv("RESUME_PARSER_URL", ""),
			APIKey: getEnv("RESUME_PARSER_API_KEY", ""),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if !c.AI.MockMode && c.AI.APIKey == "" {
		return fmt.Errorf("%w: AI_API_KEY is required when MOCK_MODE is disabled", ErrInvalidConfig)
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderDeepseek:
	default:
		return fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrInvalidConfig, c.AI.Provider)
	}

	switch c.Analysis.ResumeMode {
	case ResumeModeInsights, ResumeModeMatch:
	default:
		return fmt.Errorf("%w: unknown ANALYZE_RESUME_MODE %q", ErrInvalidConfig, c.Analysis.ResumeMode)
	}

	if !c.hasSkillProfile(c.Analysis.SkillProfile) {
		return fmt.Errorf("%w: unknown SKILL_PROFILE %q", ErrInvalidConfig, c.Analysis.SkillProfile)
	}

	if c.Analysis.MaxInputChars <= 0 {
		return fmt.Errorf("%w: MAX_INPUT_CHARS must be positive", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) hasSkillProfile(name string) bool {
	for _, p := range BuiltinSkillProfiles {
		if p == name {
			return true
		}
	}
	for _, p := range c.Analysis.CustomProfiles {
		if p == name {
			return true
		}
	}
	return false
}

// ModelName returns the configured model or the provider default.
func (c *Config) ModelName() string {
	if c.AI.Model != "" {
		return c.AI.Model
	}
	if c.AI.Provider == ProviderDeepseek {
		return "deepseek-chat"
	}
	return "gemini-2.5-flash"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsMode reads an enabled/disabled switch.
func getEnvAsMode(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(getEnv(key, ""))) {
	case "enabled", "enable", "true", "1", "on", "yes":
		return true
	case "disabled", "disable", "false", "0", "off", "no":
		return false
	default:
		return defaultValue
	}
}

func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
