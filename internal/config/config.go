// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Enabled reports whether every credential needed for uploads is present.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.Bucket != "" && r.AccessKey != "" && r.SecretKey != ""
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	OllamaHost  string
	Temperature float64
	MaxTokens   int
	Attempts    int
	Backoff     time.Duration
}

type InterviewConfig struct {
	Pacing        time.Duration
	QuestionCount int
	IdleTTL       time.Duration
}

type Config struct {
	Port           int
	DBURL          string
	RabbitMQURL    string
	R2             R2Config
	LLM            LLMConfig
	Interview      InterviewConfig
	CatalogPath    string
	Workers        int
	RateLimit      int
	RateWindow     time.Duration
	MaxInputTokens int
	CookieSecure   bool
	Debug          bool
}

// Load builds a Config from the environment. Call godotenv.Load first to
// pick up a .env file.
func Load() *Config {
	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))
	return &Config{
		Port:        getEnvAsInt("PORT", 8080),
		DBURL:       os.Getenv("DB_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			Bucket:    os.Getenv("R2_BUCKET"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
			PublicURL: os.Getenv("R2_PUBLIC_URL"),
		},
		LLM: LLMConfig{
			Provider:    provider,
			Model:       os.Getenv("LLM_MODEL"),
			APIKey:      apiKeyFor(provider),
			OllamaHost:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.4),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Attempts:    getEnvAsInt("LLM_ATTEMPTS", 2),
			Backoff:     getEnvAsDuration("LLM_BACKOFF", 500*time.Millisecond),
		},
		Interview: InterviewConfig{
			Pacing:        getEnvAsDuration("INTERVIEW_PACING", time.Second),
			QuestionCount: getEnvAsInt("INTERVIEW_QUESTIONS", 5),
			IdleTTL:       getEnvAsDuration("SESSION_IDLE_TTL", 24*time.Hour),
		},
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		Workers:        getEnvAsInt("WORKERS", 3),
		RateLimit:      getEnvAsInt("RATE_LIMIT", 10),
		RateWindow:     getEnvAsDuration("RATE_WINDOW", time.Minute),
		MaxInputTokens: getEnvAsInt("MAX_INPUT_TOKENS", 4000),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		Debug:          getEnvAsBool("DEBUG", false),
	}
}

func apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		return ""
	default:
		return os.Getenv("GOOGLE_API_KEY")
	}
}

// Validate reports the first setting that prevents the server from starting.
func (c *Config) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("empty DB_URL in environment")
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("missing api key for LLM_PROVIDER=%s", c.LLM.Provider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.Interview.QuestionCount <= 0 {
		return fmt.Errorf("INTERVIEW_QUESTIONS must be greater than 0")
	}
	if c.Interview.Pacing < 0 {
		return fmt.Errorf("INTERVIEW_PACING cannot be negative")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS must be greater than 0")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
