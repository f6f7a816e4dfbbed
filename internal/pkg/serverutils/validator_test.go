package serverutils

import (
	"errors"
	"testing"

	"cv-chat-be/internal/dto"
	"cv-chat-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChatRequest(t *testing.T) {
	user := dto.ChatMessageRequest{Role: "user", Content: "hi"}

	tests := []struct {
		name    string
		req     dto.ChatRequest
		wantMsg string
	}{
		{name: "valid", req: dto.ChatRequest{SessionId: "s1", Messages: []dto.ChatMessageRequest{user}}},
		{name: "missing session", req: dto.ChatRequest{Messages: []dto.ChatMessageRequest{user}}, wantMsg: dto.MsgSessionIdRequired},
		{
			name:    "missing session wins over bad role",
			req:     dto.ChatRequest{Messages: []dto.ChatMessageRequest{{Role: "system"}}},
			wantMsg: dto.MsgSessionIdRequired,
		},
		{name: "unknown role", req: dto.ChatRequest{SessionId: "s1", Messages: []dto.ChatMessageRequest{{Role: "tool"}}}, wantMsg: dto.MsgInvalidMessageRole},
		{name: "no messages", req: dto.ChatRequest{SessionId: "s1"}, wantMsg: dto.MsgInvalidMessageRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var appErr *apperror.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestValidateRequestWithoutMessenger(t *testing.T) {
	type req struct {
		Name string `validate:"required"`
	}

	err := ValidateRequest(req{})
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, invalidBodyMessage, appErr.Message)
}
