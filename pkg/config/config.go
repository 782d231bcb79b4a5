package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from the environment
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	Env       string `envconfig:"APP_ENV" default:"development"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	SentryDSN string `envconfig:"SENTRY_DSN"`
	Locale    string `envconfig:"LOCALE" default:"ja"`

	// Path of the TOML file that seeds the in-memory workspace
	WorkspaceFile string `envconfig:"WORKSPACE_FILE" default:"workspace.toml"`

	// Embedded so their variables keep unprefixed names
	AIConfig
	ChromaConfig
	ReminderConfig
}

// AIConfig selects and tunes the generative AI collaborator
type AIConfig struct {
	Provider          string        `envconfig:"AI_PROVIDER" default:"auto"` // gemini, ollama or auto
	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	OllamaBaseURL     string        `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel       string        `envconfig:"OLLAMA_MODEL" default:"llama3"`
	RequestsPerMinute int           `envconfig:"AI_REQUESTS_PER_MINUTE" default:"30"`
	AnalysisWorkers   int           `envconfig:"ANALYSIS_WORKERS" default:"3"`
	AutoAnalyze       bool          `envconfig:"AUTO_ANALYZE" default:"false"`
	Timeout           time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

// ChromaConfig enables the embedding index used for AI search
type ChromaConfig struct {
	APIKey   string `envconfig:"CHROMA_API_KEY"`
	Tenant   string `envconfig:"CHROMA_TENANT"`
	Database string `envconfig:"CHROMA_DATABASE"`
}

// ReminderConfig controls the follow-up reminder watcher
type ReminderConfig struct {
	Interval  time.Duration `envconfig:"REMINDER_INTERVAL" default:"1m"`
	Threshold time.Duration `envconfig:"REMINDER_THRESHOLD" default:"48h"`
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AIConfig.AnalysisWorkers < 1 {
		cfg.AIConfig.AnalysisWorkers = 1
	}
	if cfg.AIConfig.RequestsPerMinute < 1 {
		cfg.AIConfig.RequestsPerMinute = 1
	}
	return &cfg, nil
}

// ChromaEnabled reports whether vector search credentials were provided
func (c *Config) ChromaEnabled() bool {
	return c.ChromaConfig.APIKey != ""
}
