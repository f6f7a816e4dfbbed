package embedding

import "context"

// TaskTypeRetrievalQuery marks live visitor questions for providers that
// embed queries and documents differently.
const TaskTypeRetrievalQuery = "RETRIEVAL_QUERY"

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}
