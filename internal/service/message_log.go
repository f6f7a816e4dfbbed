package service

import (
	"context"
	"time"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/repository/specification"
	"cv-chat-be/internal/repository/unitofwork"
)

// IMessageLog is the append-only conversation record of a session.
type IMessageLog interface {
	Append(ctx context.Context, sessionId string, role entity.MessageRole, content string) (*entity.ChatMessage, error)
	ListBySession(ctx context.Context, sessionId string) ([]*entity.ChatMessage, error)
}

type messageLog struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewMessageLog(uowFactory unitofwork.RepositoryFactory) IMessageLog {
	return &messageLog{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (l *messageLog) Append(ctx context.Context, sessionId string, role entity.MessageRole, content string) (*entity.ChatMessage, error) {
	msg := &entity.ChatMessage{
		SessionId: sessionId,
		Role:      role,
		Content:   content,
		CreatedAt: l.now(),
	}

	uow := l.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (l *messageLog) ListBySession(ctx context.Context, sessionId string) ([]*entity.ChatMessage, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByCreatedAtAsc{},
	)
}
