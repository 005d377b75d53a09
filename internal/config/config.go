// ABOUTME: Centralized configuration for the book concierge
// ABOUTME: Layers defaults, an optional YAML file, then environment variables, with validation
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBookTitle names the book the assistant is restricted to
const DefaultBookTitle = "Mastering Excel for Home Budgeting"

// Config holds all configuration for the concierge
type Config struct {
	// OpenAI settings
	OpenAIKey      string        `yaml:"openai_api_key"`
	BaseURL        string        `yaml:"openai_base_url"`
	ChatModel      string        `yaml:"chat_model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Temperature    float64       `yaml:"temperature"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`

	// Book index settings
	IndexPath       string `yaml:"index_path"`
	MetadataPath    string `yaml:"metadata_path"`
	VectorDimension int    `yaml:"vector_dimension"`

	// Session settings
	TopK              int           `yaml:"top_k"`
	MaxQuestions      int           `yaml:"max_questions"`
	RefineEnabled     bool          `yaml:"refine_enabled"`
	BookTitle         string        `yaml:"book_title"`
	InstructionsFile  string        `yaml:"instructions_file"`
	EmbeddingCacheTTL time.Duration `yaml:"embedding_cache_ttl"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ChatModel:         "gpt-3.5-turbo",
		EmbeddingModel:    "text-embedding-3-small",
		Timeout:           30 * time.Second,
		MaxRetries:        0,
		RetryDelay:        2 * time.Second,
		IndexPath:         "book_index.db",
		MetadataPath:      "book_metadata.json",
		VectorDimension:   1536,
		TopK:              3,
		MaxQuestions:      10,
		BookTitle:         DefaultBookTitle,
		EmbeddingCacheTTL: 10 * time.Minute,
		LogLevel:          "info",
	}
}

// Load reads configuration from an optional YAML file and then environment variables.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.BaseURL = getEnv("OPENAI_BASE_URL", c.BaseURL)
	c.ChatModel = getEnv("CONCIERGE_CHAT_MODEL", c.ChatModel)
	c.EmbeddingModel = getEnv("CONCIERGE_EMBEDDING_MODEL", c.EmbeddingModel)
	c.Temperature = getEnvFloat("CONCIERGE_TEMPERATURE", c.Temperature)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.IndexPath = getEnv("CONCIERGE_INDEX_PATH", c.IndexPath)
	c.MetadataPath = getEnv("CONCIERGE_METADATA_PATH", c.MetadataPath)
	c.VectorDimension = getEnvInt("CONCIERGE_VECTOR_DIMENSION", c.VectorDimension)
	c.TopK = getEnvInt("CONCIERGE_TOP_K", c.TopK)
	c.MaxQuestions = getEnvInt("CONCIERGE_MAX_QUESTIONS", c.MaxQuestions)
	c.RefineEnabled = getEnvBool("CONCIERGE_REFINE", c.RefineEnabled)
	c.BookTitle = getEnv("CONCIERGE_BOOK_TITLE", c.BookTitle)
	c.InstructionsFile = getEnv("CONCIERGE_INSTRUCTIONS_FILE", c.InstructionsFile)
	c.EmbeddingCacheTTL = getEnvDuration("CONCIERGE_EMBEDDING_CACHE_TTL", c.EmbeddingCacheTTL)
	c.LogLevel = getEnv("CONCIERGE_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("CONCIERGE_LOG_FILE", c.LogFile)
}

func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("CONCIERGE_TOP_K must be >= 1, got %d", c.TopK)
	}
	if c.MaxQuestions < 1 {
		return fmt.Errorf("CONCIERGE_MAX_QUESTIONS must be >= 1, got %d", c.MaxQuestions)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must not be negative, got %v", c.Timeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("CONCIERGE_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.VectorDimension < 0 {
		return fmt.Errorf("CONCIERGE_VECTOR_DIMENSION must not be negative, got %d", c.VectorDimension)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("CONCIERGE_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// RequireAPIKey reports a missing key for commands that call the OpenAI API
func (c *Config) RequireAPIKey() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
