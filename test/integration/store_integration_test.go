package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/migration"
	"cv-chat-be/internal/repository/unitofwork"
	"cv-chat-be/internal/service"
	"cv-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dims = 768

func setupFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, true)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, migration.Run(gormDB))

	return unitofwork.NewRepositoryFactory(gormDB)
}

// axisVector points mostly along axis i with a small tilt towards axis j.
func axisVector(i, j int, tilt float32) []float32 {
	v := make([]float32, dims)
	v[i] = 1
	v[j] = tilt
	return v
}

func TestMessageLogRoundTrip(t *testing.T) {
	factory := setupFactory(t)
	ctx := context.Background()

	sessionId := uuid.NewString()
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, &entity.ChatSession{Id: sessionId, CreatedAt: time.Now()}))

	messageLog := service.NewMessageLog(factory)
	_, err := messageLog.Append(ctx, sessionId, entity.MessageRoleUser, "What do you do?")
	require.NoError(t, err)
	_, err = messageLog.Append(ctx, sessionId, entity.MessageRoleAssistant, "I build backends.")
	require.NoError(t, err)

	msgs, err := messageLog.ListBySession(ctx, sessionId)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.MessageRoleUser, msgs[0].Role)
	assert.Equal(t, "I build backends.", msgs[1].Content)
	assert.False(t, msgs[1].CreatedAt.Before(msgs[0].CreatedAt))

	t.Run("unknown session is rejected", func(t *testing.T) {
		_, err := messageLog.Append(ctx, "no-such-session-"+uuid.NewString(), entity.MessageRoleUser, "hi")
		assert.Error(t, err)
	})
}

func TestKnowledgeBaseSearchOrdering(t *testing.T) {
	factory := setupFactory(t)
	ctx := context.Background()
	repo := factory.NewUnitOfWork(ctx).KnowledgeBaseRepository()

	marker := uuid.NewString()
	entries := []*entity.KnowledgeEntry{
		{Category: "skills", Content: "close " + marker, Embedding: axisVector(700, 701, 0.1)},
		{Category: "skills", Content: "closer " + marker, Embedding: axisVector(700, 701, 0.01)},
		{Category: "hobbies", Content: "orthogonal " + marker, Embedding: axisVector(701, 700, 0)},
	}
	for _, e := range entries {
		e.Metadata = map[string]interface{}{"marker": marker}
		require.NoError(t, repo.Create(ctx, e))
	}

	results, err := repo.SearchSimilar(ctx, axisVector(700, 701, 0), 0.5, 5)
	require.NoError(t, err)

	var ours []*entity.ScoredKnowledgeEntry
	for _, r := range results {
		if r.Entry.Metadata["marker"] == marker {
			ours = append(ours, r)
		}
	}
	require.Len(t, ours, 2)
	assert.Equal(t, "closer "+marker, ours[0].Entry.Content)
	assert.GreaterOrEqual(t, ours[0].Similarity, ours[1].Similarity)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, 0.5)
	}

	limited, err := repo.SearchSimilar(ctx, axisVector(700, 701, 0), 0.5, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
