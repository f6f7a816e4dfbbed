package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const geminiEmbeddingModel = "text-embedding-004"

type embeddingRequestContentPart struct {
	Text string `json:"text"`
}

type embeddingRequestContent struct {
	Parts []embeddingRequestContentPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model    string                  `json:"model"`
	Content  embeddingRequestContent `json:"content"`
	TaskType string                  `json:"task_type,omitempty"`
}

type GeminiProvider struct {
	ApiKey  string
	BaseURL string
	Client  *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com",
		Client:  &http.Client{},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	geminiReq := geminiEmbeddingRequest{
		Model: geminiEmbeddingModel,
		Content: embeddingRequestContent{
			Parts: []embeddingRequestContentPart{
				{
					Text: text,
				},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s:embedContent", p.BaseURL, geminiEmbeddingModel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, err
	}

	return &resEmbedding, nil
}
