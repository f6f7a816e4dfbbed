package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// EmbeddingDimensions is the fixed width of the knowledge_base.embedding column.
// Keep it in step with the vector(N) tag below.
const EmbeddingDimensions = 768

type KnowledgeEntry struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category  string            `gorm:"type:varchar(64);not null;index"`
	Content   string            `gorm:"type:text;not null"`
	Embedding pgvector.Vector   `gorm:"type:vector(768);not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_base"
}
