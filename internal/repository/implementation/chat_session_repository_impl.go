package implementation

import (
	"context"
	"errors"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/mapper"
	"cv-chat-be/internal/model"
	"cv-chat-be/internal/repository/contract"
	"cv-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ChatSessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ChatSessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var m model.ChatSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}
