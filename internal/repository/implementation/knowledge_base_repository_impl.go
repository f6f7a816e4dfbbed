package implementation

import (
	"context"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/mapper"
	"cv-chat-be/internal/model"
	"cv-chat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeBaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeBaseRepository(db *gorm.DB) contract.KnowledgeBaseRepository {
	return &KnowledgeBaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeBaseRepositoryImpl) Create(ctx context.Context, entry *entity.KnowledgeEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeBaseRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, threshold float64, limit int) ([]*entity.ScoredKnowledgeEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.KnowledgeEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table(model.KnowledgeEntry{}.TableName()).
		Select("knowledge_base.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredKnowledgeEntry, len(results))
	for i := range results {
		scored[i] = &entity.ScoredKnowledgeEntry{
			Entry:      r.mapper.ToEntity(&results[i].KnowledgeEntry),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
