package implementation

import (
	"context"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/mapper"
	"cv-chat-be/internal/model"
	"cv-chat-be/internal/repository/contract"
	"cv-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	// Omit the association so a zero session row is never upserted; the FK enforces existence.
	if err := r.db.WithContext(ctx).Omit("Session").Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatMessagesToEntities(models), nil
}
