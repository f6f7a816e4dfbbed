package model

import (
	"time"
)

type ChatSession struct {
	Id        string    `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
