package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MsgSessionIdRequired  = "Session ID is required"
	MsgInvalidMessageRole = "Invalid message role"
)

type ChatMessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages  []ChatMessageRequest `json:"messages" validate:"required,min=1,dive"`
	SessionId string               `json:"sessionId" validate:"required"`
}

// ValidationMessage reports a missing session id ahead of any message problem.
func (r ChatRequest) ValidationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		if fe.StructField() == "SessionId" {
			return MsgSessionIdRequired
		}
	}
	return MsgInvalidMessageRole
}

// LastMessage returns the turn being answered.
func (r ChatRequest) LastMessage() ChatMessageRequest {
	return r.Messages[len(r.Messages)-1]
}

type CreateSessionResponse struct {
	Id string `json:"id"`
}

type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
