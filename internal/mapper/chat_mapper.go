package mapper

import (
	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:        s.Id,
		CreatedAt: s.CreatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:        s.Id,
		CreatedAt: s.CreatedAt,
	}
}

// Message Mappers

// ChatMessageToEntity trusts the stored role; rows are only ever written through ChatMessageToModel.
func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		SessionId: msg.SessionId,
		Role:      entity.MessageRole(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		SessionId: msg.SessionId,
		Role:      msg.Role.String(),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}
