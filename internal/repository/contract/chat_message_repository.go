package contract

import (
	"context"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/repository/specification"
)

// ChatMessageRepository is append-only: messages are never updated or deleted here.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}
