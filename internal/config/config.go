package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ChatModeRAG     = "rag"
	ChatModeHistory = "history"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Google   GoogleCloudConfig
	Ai       AIConfig
	Rag      RAGConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	AzureOpenAI  string
	GoogleGemini string
}

// GoogleCloudConfig holds the service-account credentials used by the Vertex AI generation provider.
type GoogleCloudConfig struct {
	ProjectID   string
	Region      string
	ClientEmail string
	PrivateKey  string
}

type AIConfig struct {
	EmbeddingProvider   string // "azure", "gemini" or "ollama"
	EmbeddingDimensions int
	AzureResourceName   string
	AzureEndpoint       string // overrides the resource-derived endpoint when set
	AzureDeployment     string
	OllamaBaseURL       string
	OllamaModel         string
	LLMProvider         string // "vertex" or "ollama"
	LLMModel            string
}

type RAGConfig struct {
	Mode                 string // "rag" or "history"
	MatchThreshold       float64
	MatchCount           int
	EmbeddingCacheTTLMin int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			AzureOpenAI:  getEnv("AZURE_OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Google: GoogleCloudConfig{
			ProjectID:   getEnv("GOOGLE_CLOUD_PROJECT_ID", ""),
			Region:      getEnv("GOOGLE_REGION", ""),
			ClientEmail: getEnv("GOOGLE_CLOUD_CLIENT_EMAIL", ""),
			PrivateKey:  getEnv("GOOGLE_CLOUD_PRIVATE_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "azure"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
			AzureResourceName:   getEnv("AZURE_OPENAI_RESOURCE_NAME", ""),
			AzureEndpoint:       getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureDeployment:     getEnv("AZURE_OPENAI_EMBEDDING_DEPLOYMENT", "text-embedding-3-small"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:         getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:         getEnv("LLM_PROVIDER", "vertex"),
			LLMModel:            getEnv("LLM_MODEL", "gemini-2.5-flash"),
		},
		Rag: RAGConfig{
			Mode:                 getEnv("CHAT_MODE", ChatModeRAG),
			MatchThreshold:       getEnvAsFloat("RAG_MATCH_THRESHOLD", 0.1),
			MatchCount:           getEnvAsInt("RAG_MATCH_COUNT", 5),
			EmbeddingCacheTTLMin: getEnvAsInt("EMBEDDING_CACHE_TTL_MINUTES", 60),
		},
	}
}

// MissingGenerationCredentials lists the unset environment variables required by the configured LLM provider.
func (c *Config) MissingGenerationCredentials() []string {
	if c.Ai.LLMProvider != "vertex" {
		return nil
	}
	return missing(map[string]string{
		"GOOGLE_CLOUD_PROJECT_ID":   c.Google.ProjectID,
		"GOOGLE_REGION":             c.Google.Region,
		"GOOGLE_CLOUD_CLIENT_EMAIL": c.Google.ClientEmail,
		"GOOGLE_CLOUD_PRIVATE_KEY":  c.Google.PrivateKey,
	}, "GOOGLE_CLOUD_PROJECT_ID", "GOOGLE_REGION", "GOOGLE_CLOUD_CLIENT_EMAIL", "GOOGLE_CLOUD_PRIVATE_KEY")
}

// MissingEmbeddingCredentials lists the unset environment variables required by the configured embedding provider.
func (c *Config) MissingEmbeddingCredentials() []string {
	switch c.Ai.EmbeddingProvider {
	case "ollama":
		return nil
	case "gemini":
		return missing(map[string]string{"GOOGLE_GEMINI_API_KEY": c.Keys.GoogleGemini}, "GOOGLE_GEMINI_API_KEY")
	default:
		names := missing(map[string]string{"AZURE_OPENAI_API_KEY": c.Keys.AzureOpenAI}, "AZURE_OPENAI_API_KEY")
		if c.Ai.AzureResourceName == "" && c.Ai.AzureEndpoint == "" {
			names = append(names, "AZURE_OPENAI_RESOURCE_NAME")
		}
		return names
	}
}

// MissingStoreCredentials lists the unset environment variables required to open the database pool.
func (c *Config) MissingStoreCredentials() []string {
	return missing(map[string]string{"DB_CONNECTION_STRING": c.Database.Connection}, "DB_CONNECTION_STRING")
}

func missing(values map[string]string, order ...string) []string {
	var names []string
	for _, name := range order {
		if values[name] == "" {
			names = append(names, name)
		}
	}
	return names
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
