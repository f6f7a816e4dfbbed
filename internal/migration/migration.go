package migration

import (
	"fmt"

	"cv-chat-be/internal/model"

	"gorm.io/gorm"
)

// Extensions GORM AutoMigrate cannot create.
var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

var postMigrationSQL = []string{
	// Closed role set at the storage layer too
	`DO $$ BEGIN
	   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chat_messages_role_check') THEN
	     ALTER TABLE chat_messages ADD CONSTRAINT chat_messages_role_check CHECK (role IN ('user', 'assistant'));
	   END IF;
	 END $$;`,

	// Cosine distance index for the <=> search
	`CREATE INDEX IF NOT EXISTS idx_knowledge_base_embedding_hnsw
	 ON knowledge_base USING hnsw (embedding vector_cosine_ops);`,
}

func Models() []interface{} {
	return []interface{}{
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.KnowledgeEntry{},
	}
}

// CheckEmbeddingDimensions rejects a configured vector width the
// knowledge_base column cannot store.
func CheckEmbeddingDimensions(dims int) error {
	if dims != model.EmbeddingDimensions {
		return fmt.Errorf("EMBEDDING_DIMENSIONS=%d does not match knowledge_base.embedding vector(%d)", dims, model.EmbeddingDimensions)
	}
	return nil
}

// Run is idempotent and safe to execute on every deploy.
func Run(db *gorm.DB) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post migration: %w", err)
		}
	}
	return nil
}
