package service

import (
	"context"
	"fmt"

	"cv-chat-be/internal/config"
	"cv-chat-be/internal/constant"
	"cv-chat-be/internal/dto"
	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/pkg/apperror"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/internal/repository/memory"
	"cv-chat-be/internal/repository/unitofwork"
	"cv-chat-be/pkg/embedding"
	"cv-chat-be/pkg/llm"
	"cv-chat-be/pkg/rag/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const chatModule = "CHAT"

var chatTracer = otel.Tracer("cv-chat-be/service/chat")

// CredentialSource reports configuration that is missing for the active
// providers. It is read per turn so nothing is dialed without credentials.
type CredentialSource interface {
	MissingGenerationCredentials() []string
	MissingEmbeddingCredentials() []string
}

type ChatSettings struct {
	Mode                string
	MatchThreshold      float64
	MatchCount          int
	EmbeddingDimensions int
}

type IChatService interface {
	// StartTurn runs every step up to opening the generation stream. Errors
	// returned here are *apperror.Error and nothing has been streamed yet.
	StartTurn(ctx context.Context, req *dto.ChatRequest) (*TurnStream, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	messageLog        IMessageLog
	embeddingProvider embedding.EmbeddingProvider
	embeddingCache    *memory.EmbeddingCache
	llmProvider       llm.LLMProvider
	credentials       CredentialSource
	promptBuilder     *prompt.PersonaBuilder
	settings          ChatSettings
	logger            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	messageLog IMessageLog,
	embeddingProvider embedding.EmbeddingProvider,
	embeddingCache *memory.EmbeddingCache,
	llmProvider llm.LLMProvider,
	credentials CredentialSource,
	settings ChatSettings,
	log logger.ILogger,
) IChatService {
	if settings.Mode == "" {
		settings.Mode = config.ChatModeRAG
	}
	if settings.MatchCount <= 0 {
		settings.MatchCount = 5
	}

	return &chatService{
		uowFactory:        uowFactory,
		messageLog:        messageLog,
		embeddingProvider: embeddingProvider,
		embeddingCache:    embeddingCache,
		llmProvider:       llmProvider,
		credentials:       credentials,
		promptBuilder:     prompt.NewPersonaBuilder(constant.ChatPersonaPromptV1, constant.ContextPlaceholder, constant.EmptyContextLine),
		settings:          settings,
		logger:            log,
	}
}

func (s *chatService) StartTurn(ctx context.Context, req *dto.ChatRequest) (*TurnStream, error) {
	ctx, span := chatTracer.Start(ctx, "chat.start_turn", trace.WithAttributes(
		attribute.String("chat.session_id", req.SessionId),
		attribute.String("chat.mode", s.settings.Mode),
	))
	defer span.End()

	turn, err := s.startTurn(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperror.KindOf(err).String())
		return nil, err
	}
	return turn, nil
}

func (s *chatService) startTurn(ctx context.Context, req *dto.ChatRequest) (*TurnStream, error) {
	// 1. Validate session and the turn being answered
	if req.SessionId == "" {
		return nil, apperror.Validation("chat.validate", dto.MsgSessionIdRequired, nil)
	}
	if len(req.Messages) == 0 {
		return nil, apperror.Validation("chat.validate", dto.MsgInvalidMessageRole, nil)
	}
	last := req.LastMessage()
	if role, err := entity.ParseMessageRole(last.Role); err != nil || role != entity.MessageRoleUser {
		return nil, apperror.Validation("chat.validate", dto.MsgInvalidMessageRole, err)
	}

	// 2. Credentials, before any network call
	if err := s.checkCredentials(req.SessionId); err != nil {
		return nil, err
	}

	// 3. Persist the user message
	if _, err := s.messageLog.Append(ctx, req.SessionId, entity.MessageRoleUser, last.Content); err != nil {
		s.logFailure("chat.persist_user", req.SessionId, "Failed to save user message", err)
		return nil, apperror.Storage("chat.persist_user", "Failed to save user message", err)
	}

	// 4. Build the generation input
	var history []llm.Message
	var sources int
	var err error
	switch s.settings.Mode {
	case config.ChatModeHistory:
		history, err = s.historyConversation(ctx, req.SessionId)
	default:
		history, sources, err = s.ragConversation(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	// 5. Open the generation stream
	ctx, span := chatTracer.Start(ctx, "chat.generate")
	defer span.End()

	stream, err := s.llmProvider.Stream(ctx, history)
	if err != nil {
		span.RecordError(err)
		s.logFailure("chat.generate", req.SessionId, "Failed to open generation stream", err)
		return nil, apperror.UpstreamModel("chat.generate", "Failed to generate response", err)
	}

	s.logger.Info(chatModule, "Generation stream opened", map[string]interface{}{
		"session_id": req.SessionId,
		"mode":       s.settings.Mode,
		"sources":    sources,
	})

	return newTurnStream(req.SessionId, stream, s.messageLog, s.logger), nil
}

func (s *chatService) checkCredentials(sessionId string) error {
	if missing := s.credentials.MissingGenerationCredentials(); len(missing) > 0 {
		s.logger.Error(chatModule, "Generation credentials missing", map[string]interface{}{
			"operation":  "chat.credentials",
			"session_id": sessionId,
			"missing":    missing,
		})
		return apperror.Credential("chat.credentials", "Google Cloud credentials are not set",
			fmt.Errorf("missing %v", missing))
	}

	if s.settings.Mode == config.ChatModeHistory {
		return nil
	}

	if missing := s.credentials.MissingEmbeddingCredentials(); len(missing) > 0 {
		s.logger.Error(chatModule, "Embedding credentials missing", map[string]interface{}{
			"operation":  "chat.credentials",
			"session_id": sessionId,
			"missing":    missing,
		})
		return apperror.Credential("chat.credentials", "Embedding credentials are not set",
			fmt.Errorf("missing %v", missing))
	}
	return nil
}

// ragConversation embeds the question, retrieves matching knowledge and
// prefixes the submitted conversation with the persona prompt.
func (s *chatService) ragConversation(ctx context.Context, req *dto.ChatRequest) ([]llm.Message, int, error) {
	question := req.LastMessage().Content

	vector, err := s.embed(ctx, question)
	if err != nil {
		s.logFailure("chat.embed", req.SessionId, "Failed to embed message", err)
		return nil, 0, apperror.UpstreamModel("chat.embed", "Failed to embed message", err)
	}

	ctx, span := chatTracer.Start(ctx, "chat.retrieve")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.KnowledgeBaseRepository().SearchSimilar(ctx, vector, s.settings.MatchThreshold, s.settings.MatchCount)
	if err != nil {
		span.RecordError(err)
		s.logFailure("chat.retrieve", req.SessionId, "Failed to retrieve context", err)
		return nil, 0, apperror.Storage("chat.retrieve", "Failed to retrieve context", err)
	}
	span.SetAttributes(attribute.Int("chat.sources", len(entries)))

	contexts := make([]string, 0, len(entries))
	for _, e := range entries {
		contexts = append(contexts, e.Entry.Content)
	}

	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: s.promptBuilder.Build(contexts)})
	for _, m := range req.Messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return history, len(entries), nil
}

func (s *chatService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embeddingCache != nil {
		if vector, ok := s.embeddingCache.Get(text); ok {
			return vector, nil
		}
	}

	ctx, span := chatTracer.Start(ctx, "chat.embed")
	defer span.End()

	res, err := s.embeddingProvider.Generate(ctx, text, embedding.TaskTypeRetrievalQuery)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	vector := res.Embedding.Values
	if want := s.settings.EmbeddingDimensions; want > 0 && len(vector) != want {
		return nil, fmt.Errorf("embedding has %d dimensions, knowledge base expects %d", len(vector), want)
	}

	if s.embeddingCache != nil {
		s.embeddingCache.Set(text, vector)
	}
	return vector, nil
}

// historyConversation replays the stored session, which already contains the
// user message persisted for this turn.
func (s *chatService) historyConversation(ctx context.Context, sessionId string) ([]llm.Message, error) {
	messages, err := s.messageLog.ListBySession(ctx, sessionId)
	if err != nil {
		s.logFailure("chat.history", sessionId, "Failed to fetch chat history", err)
		return nil, apperror.Storage("chat.history", "Failed to fetch chat history", err)
	}

	history := make([]llm.Message, 0, len(messages)+1)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: constant.ChatBasePromptV1})
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role.String(), Content: m.Content})
	}
	return history, nil
}

func (s *chatService) logFailure(op, sessionId, message string, err error) {
	s.logger.Error(chatModule, message, map[string]interface{}{
		"operation":  op,
		"session_id": sessionId,
		"error":      err,
	})
}
