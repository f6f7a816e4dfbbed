package bootstrap

import (
	"testing"

	"cv-chat-be/internal/config"
	"cv-chat-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     interface{}
		wantErr  bool
	}{
		{provider: "azure", want: &embedding.AzureProvider{}},
		{provider: "gemini", want: &embedding.GeminiProvider{}},
		{provider: "ollama", want: &embedding.OllamaProvider{}},
		{provider: "jina", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &config.Config{Ai: config.AIConfig{EmbeddingProvider: tt.provider, EmbeddingDimensions: 768}}

			p, err := NewEmbeddingProvider(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}
