package factory

import (
	"fmt"

	"cv-chat-be/pkg/llm"
	"cv-chat-be/pkg/llm/ollama"
	"cv-chat-be/pkg/llm/vertex"
)

type Params struct {
	Provider string
	Model    string

	// vertex
	ProjectID   string
	Region      string
	ClientEmail string
	PrivateKey  string

	// ollama
	BaseURL string
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "", "vertex":
		return vertex.NewVertexProvider(vertex.Config{
			ProjectID:   p.ProjectID,
			Region:      p.Region,
			ClientEmail: p.ClientEmail,
			PrivateKey:  p.PrivateKey,
			Model:       p.Model,
		}), nil
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, p.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
