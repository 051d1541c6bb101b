package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	// LLMEndpoint is the Azure OpenAI resource endpoint, or any OpenAI-compatible
	// base URL (e.g. "https://api.openai.com/v1") when LLMAPIVersion is empty.
	LLMEndpoint         string
	LLMAPIKey           string
	LLMAPIVersion       string
	ChatDeployment      string
	EmbeddingDeployment string

	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	QdrantVectorSize int

	PDFFolder string
	DBPath    string
	APIPort   string

	LogLevel  slog.Level
	LogFormat string

	Tuning Tuning
}

// Tuning holds the retrieval and generation knobs. Values can come from the
// YAML file named by RAG_CONFIG_FILE and are overridden by environment variables.
type Tuning struct {
	// RelevanceThreshold is the minimum top similarity score required to answer from retrieved context.
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	// ChunkSize is the number of words per chunk.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is the number of words shared by consecutive chunks.
	ChunkOverlap int `yaml:"chunk_overlap"`
	// TopK is the number of chunks retrieved per question.
	TopK int `yaml:"top_k"`
	// MaxTokens bounds the completion length.
	MaxTokens int `yaml:"max_tokens"`
	// Temperature is passed to the completion request.
	Temperature float64 `yaml:"temperature"`
	// SystemPrompt is the fixed system message of every completion request.
	SystemPrompt string `yaml:"system_prompt"`
}

// Defaults for Tuning.
const (
	DefaultRelevanceThreshold = 0.55
	DefaultChunkSize          = 500
	DefaultChunkOverlap       = 50
	DefaultTopK               = 3
	DefaultMaxTokens          = 500
	DefaultTemperature        = 0.4
	DefaultSystemPrompt       = "You are a helpful AI assistant."
)

// DefaultTuning returns the tuning values used when nothing overrides them.
func DefaultTuning() Tuning {
	return Tuning{
		RelevanceThreshold: DefaultRelevanceThreshold,
		ChunkSize:          DefaultChunkSize,
		ChunkOverlap:       DefaultChunkOverlap,
		TopK:               DefaultTopK,
		MaxTokens:          DefaultMaxTokens,
		Temperature:        DefaultTemperature,
		SystemPrompt:       DefaultSystemPrompt,
	}
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		LLMEndpoint:         getEnv("AZURE_OPENAI_ENDPOINT", ""),
		LLMAPIKey:           getEnv("AZURE_OPENAI_KEY", ""),
		LLMAPIVersion:       getEnv("API_VERSION", ""),
		ChatDeployment:      getEnv("LLM_DEPLOYMENT", ""),
		EmbeddingDeployment: getEnv("EMBEDDING_DEPLOYMENT", ""),
		QdrantURL:           getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:        getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:    getEnv("QDRANT_COLLECTION", "hr-policy-index"),
		PDFFolder:           getEnv("PDF_FOLDER", "./data"),
		DBPath:              getEnv("DB_PATH", "./var/ingest.db"),
		APIPort:             getEnv("API_PORT", "8000"),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Tuning:              DefaultTuning(),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Note: the vector size must match the output size of the embedding deployment
	// (1536 for text-embedding-ada-002 and text-embedding-3-small). If it changes,
	// the Qdrant collection must be recreated.
	vectorSize, err := getEnvInt("QDRANT_VECTOR_SIZE", 1536)
	if err != nil {
		return nil, err
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if path := getEnv("RAG_CONFIG_FILE", ""); path != "" {
		if err := loadTuningFile(path, &cfg.Tuning); err != nil {
			return nil, err
		}
	}
	if err := applyTuningEnv(&cfg.Tuning); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// AzureMode reports whether the LLM endpoint is an Azure OpenAI resource.
func (c *Config) AzureMode() bool {
	return c.LLMAPIVersion != ""
}

func (c *Config) validate() error {
	if c.LLMEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_KEY is required")
	}
	if c.ChatDeployment == "" {
		return fmt.Errorf("LLM_DEPLOYMENT is required")
	}
	if c.EmbeddingDeployment == "" {
		return fmt.Errorf("EMBEDDING_DEPLOYMENT is required")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return c.Tuning.Validate()
}

// Validate checks that tuning values are usable.
func (t Tuning) Validate() error {
	if t.RelevanceThreshold < 0 {
		return fmt.Errorf("relevance threshold must not be negative")
	}
	if t.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1")
	}
	if t.ChunkOverlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative")
	}
	if t.TopK < 1 || t.TopK > 50 {
		return fmt.Errorf("top k must be between 1 and 50")
	}
	if t.MaxTokens < 1 {
		return fmt.Errorf("max tokens must be at least 1")
	}
	if t.Temperature < 0 || t.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if strings.TrimSpace(t.SystemPrompt) == "" {
		return fmt.Errorf("system prompt must not be empty")
	}
	return nil
}

// loadDotEnv loads .env from the working directory, then walks up a few levels
// looking for one next to the project root.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// loadTuningFile overlays tuning values from a YAML file. Keys absent from the
// file keep their current values.
func loadTuningFile(path string, t *Tuning) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("RAG_CONFIG_FILE %s does not exist", path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var file struct {
		Tuning Tuning `yaml:"tuning"`
	}
	file.Tuning = *t
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	*t = file.Tuning
	return nil
}

func applyTuningEnv(t *Tuning) error {
	var err error
	if t.RelevanceThreshold, err = getEnvFloat("RELEVANCE_THRESHOLD", t.RelevanceThreshold); err != nil {
		return err
	}
	if t.ChunkSize, err = getEnvInt("CHUNK_SIZE", t.ChunkSize); err != nil {
		return err
	}
	if t.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", t.ChunkOverlap); err != nil {
		return err
	}
	if t.TopK, err = getEnvInt("TOP_K", t.TopK); err != nil {
		return err
	}
	if t.MaxTokens, err = getEnvInt("MAX_TOKENS", t.MaxTokens); err != nil {
		return err
	}
	if t.Temperature, err = getEnvFloat("TEMPERATURE", t.Temperature); err != nil {
		return err
	}
	t.SystemPrompt = getEnv("SYSTEM_PROMPT", t.SystemPrompt)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}
