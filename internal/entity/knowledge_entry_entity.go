package entity

import (
	"github.com/google/uuid"
)

type KnowledgeEntry struct {
	Id        uuid.UUID
	Category  string
	Content   string
	Embedding []float32
	Metadata  map[string]interface{}
}

// ScoredKnowledgeEntry is a retrieval hit with its cosine similarity (1.0 = identical).
type ScoredKnowledgeEntry struct {
	Entry      *KnowledgeEntry
	Similarity float64
}
