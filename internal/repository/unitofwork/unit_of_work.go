package unitofwork

import (
	"cv-chat-be/internal/repository/contract"
)

// UnitOfWork hands out repositories bound to the same store handle for the
// duration of one request. The chat pipeline never spans a transaction over
// multiple writes, so there is no Begin/Commit here.
type UnitOfWork interface {
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	KnowledgeBaseRepository() contract.KnowledgeBaseRepository
}
