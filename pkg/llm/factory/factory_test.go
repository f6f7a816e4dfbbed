package factory

import (
	"testing"

	"cv-chat-be/pkg/llm/ollama"
	"cv-chat-be/pkg/llm/vertex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Params{Provider: "vertex", ProjectID: "p", Region: "us-central1"})
	require.NoError(t, err)
	assert.IsType(t, &vertex.VertexProvider{}, p)

	p, err = NewLLMProvider(Params{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	_, err = NewLLMProvider(Params{Provider: "huggingface"})
	assert.Error(t, err)
}
