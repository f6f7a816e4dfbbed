package contract

import (
	"context"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
}
