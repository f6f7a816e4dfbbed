package unitofwork

import (
	"cv-chat-be/internal/repository/contract"
	"cv-chat-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

// Repository Accessors

func (u *UnitOfWorkImpl) ChatSessionRepository() contract.ChatSessionRepository {
	return implementation.NewChatSessionRepository(u.db)
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.db)
}

func (u *UnitOfWorkImpl) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return implementation.NewKnowledgeBaseRepository(u.db)
}
