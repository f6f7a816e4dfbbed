package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"cv-chat-be/pkg/llm"

	"github.com/tidwall/gjson"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

// NewOllamaProvider uses a client without timeout; a streamed answer is bounded
// by the request context instead.
func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client:    &http.Client{},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	options := llm.ApplyOptions(opts...)

	ollamaMessages := make([]ollamaMessage, len(history))
	for i, msg := range history {
		ollamaMessages[i] = ollamaMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: ollamaMessages,
		Stream:   true,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}

	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	return &ndjsonStream{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

// ndjsonStream reads one JSON object per line until a chunk reports done.
type ndjsonStream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	done      bool
	closeOnce sync.Once
}

func (s *ndjsonStream) Recv() (string, error) {
	for !s.done && s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if !gjson.ValidBytes(line) {
			return "", fmt.Errorf("malformed ollama chunk: %q", line)
		}
		chunk := gjson.ParseBytes(line)
		if msg := chunk.Get("error"); msg.Exists() {
			return "", fmt.Errorf("ollama stream error: %s", msg.String())
		}

		s.done = chunk.Get("done").Bool()
		if text := chunk.Get("message.content").String(); text != "" {
			return text, nil
		}
	}
	if s.done {
		return "", io.EOF
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("read ollama stream: %w", err)
	}
	// body ended without a done marker
	return "", io.ErrUnexpectedEOF
}

func (s *ndjsonStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}
