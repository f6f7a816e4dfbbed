package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"cv-chat-be/internal/dto"
	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/internal/pkg/serverutils"
	"cv-chat-be/internal/service"
	"cv-chat-be/internal/testsupport"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionApp(store *testsupport.Store) *fiber.App {
	svc := service.NewSessionService(store, service.NewMessageLog(store), logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	NewSessionController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestCreateSession(t *testing.T) {
	store := testsupport.NewStore()
	app := newSessionApp(store)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/session", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var res dto.CreateSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.NotEmpty(t, res.Id)
	assert.Contains(t, store.Sessions, res.Id)
}

func TestCreateSessionFailure(t *testing.T) {
	store := testsupport.NewStore()
	store.CreateSessionErr = testsupport.ErrStoreDown

	resp, err := newSessionApp(store).Test(httptest.NewRequest("POST", "/api/session", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "Failed to create session", string(body))
}

func TestSessionMessages(t *testing.T) {
	store := testsupport.NewStore()
	log := service.NewMessageLog(store)
	_, err := log.Append(context.Background(), "abc", entity.MessageRoleUser, "Hi")
	require.NoError(t, err)
	_, err = log.Append(context.Background(), "abc", entity.MessageRoleAssistant, "Hey!")
	require.NoError(t, err)

	resp, err := newSessionApp(store).Test(httptest.NewRequest("GET", "/api/session/abc/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res []dto.ChatMessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res, 2)
	assert.Equal(t, "Hi", res[0].Content)
	assert.Equal(t, "assistant", res[1].Role)
}

func TestSessionMessagesDegradeToEmpty(t *testing.T) {
	store := testsupport.NewStore()
	store.FindMessagesErr = testsupport.ErrStoreDown

	resp, err := newSessionApp(store).Test(httptest.NewRequest("GET", "/api/session/abc/messages", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}
