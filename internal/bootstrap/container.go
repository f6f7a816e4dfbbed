package bootstrap

import (
	"fmt"
	"log"
	"time"

	"cv-chat-be/internal/config"
	"cv-chat-be/internal/controller"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/internal/repository/memory"
	"cv-chat-be/internal/repository/unitofwork"
	"cv-chat-be/internal/service"
	"cv-chat-be/pkg/embedding"
	"cv-chat-be/pkg/llm/factory"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	SessionController controller.ISessionController

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	messageLog := service.NewMessageLog(uowFactory)

	// 2. Providers
	embeddingProvider, err := NewEmbeddingProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%d dims)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingDimensions)

	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider:    cfg.Ai.LLMProvider,
		Model:       cfg.Ai.LLMModel,
		ProjectID:   cfg.Google.ProjectID,
		Region:      cfg.Google.Region,
		ClientEmail: cfg.Google.ClientEmail,
		PrivateKey:  cfg.Google.PrivateKey,
		BaseURL:     cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingCache := memory.NewEmbeddingCache(time.Duration(cfg.Rag.EmbeddingCacheTTLMin) * time.Minute)

	// 3. Services
	chatService := service.NewChatService(
		uowFactory,
		messageLog,
		embeddingProvider,
		embeddingCache,
		llmProvider,
		cfg,
		service.ChatSettings{
			Mode:                cfg.Rag.Mode,
			MatchThreshold:      cfg.Rag.MatchThreshold,
			MatchCount:          cfg.Rag.MatchCount,
			EmbeddingDimensions: cfg.Ai.EmbeddingDimensions,
		},
		sysLogger,
	)
	sessionService := service.NewSessionService(uowFactory, messageLog, sysLogger)

	// 4. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService),
		SessionController: controller.NewSessionController(sessionService),
		Logger:            sysLogger,
	}
}

// NewEmbeddingProvider picks the embedding backend named by EMBEDDING_PROVIDER.
func NewEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "", "azure":
		return embedding.NewAzureProvider(embedding.AzureConfig{
			ApiKey:       cfg.Keys.AzureOpenAI,
			ResourceName: cfg.Ai.AzureResourceName,
			Endpoint:     cfg.Ai.AzureEndpoint,
			Deployment:   cfg.Ai.AzureDeployment,
			Dimensions:   cfg.Ai.EmbeddingDimensions,
		}), nil
	case "gemini":
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
