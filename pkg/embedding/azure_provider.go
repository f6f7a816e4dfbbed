package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type AzureConfig struct {
	ApiKey       string
	ResourceName string
	Endpoint     string // optional, overrides https://<resource>.openai.azure.com/
	Deployment   string
	Dimensions   int
}

// AzureProvider calls an Azure OpenAI embedding deployment
// (text-embedding-3-small truncated to the knowledge base dimensionality).
type AzureProvider struct {
	client     *openai.Client
	dimensions int
}

func NewAzureProvider(cfg AzureConfig) EmbeddingProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.openai.azure.com/", cfg.ResourceName)
	}
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = string(openai.SmallEmbedding3)
	}

	clientConfig := openai.DefaultAzureConfig(cfg.ApiKey, endpoint)
	clientConfig.AzureModelMapperFunc = func(model string) string {
		return deployment
	}

	return &AzureProvider{
		client:     openai.NewClientWithConfig(clientConfig),
		dimensions: cfg.Dimensions,
	}
}

// Generate ignores taskType; OpenAI embeddings are symmetric.
func (p *AzureProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	res, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.SmallEmbedding3,
		Dimensions: p.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("azure embedding request: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("azure embedding response has no data")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: res.Data[0].Embedding,
		},
	}, nil
}
