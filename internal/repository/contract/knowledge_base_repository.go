package contract

import (
	"context"

	"cv-chat-be/internal/entity"
)

type KnowledgeBaseRepository interface {
	Create(ctx context.Context, entry *entity.KnowledgeEntry) error
	// SearchSimilar returns at most limit entries whose cosine similarity to
	// embedding is at least threshold, most similar first. Scoring happens in the store.
	SearchSimilar(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*entity.ScoredKnowledgeEntry, error)
}
