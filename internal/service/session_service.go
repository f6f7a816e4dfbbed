package service

import (
	"context"
	"time"

	"cv-chat-be/internal/dto"
	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/pkg/apperror"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISessionService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetMessages(ctx context.Context, sessionId string) ([]*dto.ChatMessageResponse, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	messageLog IMessageLog
	logger     logger.ILogger
	newID      func() string
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, messageLog IMessageLog, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		messageLog: messageLog,
		logger:     log,
		newID:      uuid.NewString,
	}
}

// CreateSession registers a fresh opaque session id.
func (s *sessionService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := &entity.ChatSession{
		Id:        s.newID(),
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		s.logger.Error("SESSION", "Failed to create session", map[string]interface{}{
			"operation":  "session.create",
			"session_id": session.Id,
			"error":      err,
		})
		return nil, apperror.Storage("session.create", "Failed to create session", err)
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

// GetMessages returns the stored conversation. A failed read is not fatal for
// the page, so it degrades to an empty list.
func (s *sessionService) GetMessages(ctx context.Context, sessionId string) ([]*dto.ChatMessageResponse, error) {
	if sessionId == "" {
		return nil, apperror.Validation("session.messages", dto.MsgSessionIdRequired, nil)
	}

	messages, err := s.messageLog.ListBySession(ctx, sessionId)
	if err != nil {
		s.logger.Warn("SESSION", "Failed to fetch messages, returning empty history", map[string]interface{}{
			"operation":  "session.messages",
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return []*dto.ChatMessageResponse{}, nil
	}

	res := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ChatMessageResponse{
			Role:      m.Role.String(),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}
