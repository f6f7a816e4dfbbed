package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string       `gorm:"type:text;not null;index:idx_chat_messages_session_created,priority:1"`
	Session   *ChatSession `gorm:"foreignKey:SessionId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Role      string       `gorm:"type:varchar(16);not null"`
	Content   string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"autoCreateTime;index:idx_chat_messages_session_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
