package mapper

import (
	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(k *model.KnowledgeEntry) *entity.KnowledgeEntry {
	if k == nil {
		return nil
	}
	return &entity.KnowledgeEntry{
		Id:        k.Id,
		Category:  k.Category,
		Content:   k.Content,
		Embedding: k.Embedding.Slice(),
		Metadata:  map[string]interface{}(k.Metadata),
	}
}

func (m *KnowledgeMapper) ToModel(k *entity.KnowledgeEntry) *model.KnowledgeEntry {
	if k == nil {
		return nil
	}
	return &model.KnowledgeEntry{
		Id:        k.Id,
		Category:  k.Category,
		Content:   k.Content,
		Embedding: pgvector.NewVector(k.Embedding),
		Metadata:  datatypes.JSONMap(k.Metadata),
	}
}
