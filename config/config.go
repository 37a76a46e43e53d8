package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds every knob the chatbot reads from the environment. Values
// are read once at startup and never reloaded.
type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Vector database connection
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"majubom"`

	Collection string `env:"COLLECTION_NAME" envDefault:"laws_db"`

	// Document sources
	DataDir    string `env:"DATA_DIR" envDefault:"data"`
	DataAPIKey string `env:"DATA_API_KEY"`

	// Embeddings
	EmbeddingProvider  string `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	EmbeddingModel     string `env:"EMBEDDING_MODEL" envDefault:"intfloat/multilingual-e5-small"`
	EmbeddingDimension int    `env:"EMBEDDING_DIMENSION" envDefault:"384"`

	// Answer generation
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openai"`
	ChatModel   string `env:"CHAT_MODEL" envDefault:"gpt-4.1-mini"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OllamaHost    string `env:"OLLAMA_HOST"`

	// Chunking and retrieval
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"100"`
	TopK         int `env:"RETRIEVER_K" envDefault:"5"`
	FetchK       int `env:"RETRIEVER_FETCH_K" envDefault:"10"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// PostgresDSN assembles the connection string from the discrete DB_* values.
func (c Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}
