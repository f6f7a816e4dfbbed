package vertex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"cv-chat-be/pkg/llm"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2/jwt"
)

const (
	defaultModel   = "gemini-2.5-flash"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	cloudScope     = "https://www.googleapis.com/auth/cloud-platform"

	// Gemini SSE events can carry large grounding payloads.
	streamScannerBuffer = 1024 * 1024
)

var dataPrefix = []byte("data:")

// Config holds service-account credentials for Vertex AI. BaseURL and
// HTTPClient are only set by tests.
type Config struct {
	ProjectID   string
	Region      string
	ClientEmail string
	PrivateKey  string
	Model       string
	BaseURL     string
	HTTPClient  *http.Client
}

type VertexProvider struct {
	cfg    Config
	client *http.Client
}

// Ensure VertexProvider implements LLMProvider
var _ llm.LLMProvider = &VertexProvider{}

func NewVertexProvider(cfg Config) *VertexProvider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = regionalEndpoint(cfg.Region)
	}

	client := cfg.HTTPClient
	if client == nil {
		jwtConfig := &jwt.Config{
			Email:      cfg.ClientEmail,
			PrivateKey: []byte(NormalizePrivateKey(cfg.PrivateKey)),
			Scopes:     []string{cloudScope},
			TokenURL:   googleTokenURL,
		}
		client = jwtConfig.Client(context.Background())
	}

	return &VertexProvider{cfg: cfg, client: client}
}

// NormalizePrivateKey turns the escaped "\n" sequences of a key stored in a
// single-line env var back into real newlines.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func regionalEndpoint(region string) string {
	if region == "" || region == "global" {
		return "https://aiplatform.googleapis.com"
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com", region)
}

// --- Request structs (Internal to this package) ---

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

func buildRequest(history []llm.Message, options *llm.Options) generateRequest {
	system, conversation := llm.SplitSystem(history)

	req := generateRequest{
		Contents: make([]content, 0, len(conversation)),
		GenerationConfig: &generationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxTokens,
		},
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	for _, msg := range conversation {
		role := "user"
		if msg.Role == llm.RoleAssistant {
			role = "model"
		}
		req.Contents = append(req.Contents, content{
			Role:  role,
			Parts: []part{{Text: msg.Content}},
		})
	}
	return req
}

func (p *VertexProvider) Stream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	options := llm.ApplyOptions(opts...)
	model := p.cfg.Model
	if options.Model != "" {
		model = options.Model
	}

	payloadBytes, err := json.Marshal(buildRequest(history, options))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:streamGenerateContent?alt=sse",
		p.cfg.BaseURL, p.cfg.ProjectID, p.cfg.Region, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vertex request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("vertex error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(nil, streamScannerBuffer)

	return &sseStream{body: resp.Body, scanner: scanner}, nil
}

type sseStream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	closeOnce sync.Once
}

func (s *sseStream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := bytes.TrimSpace(line[len(dataPrefix):])
		if len(payload) == 0 {
			continue
		}

		if msg := gjson.GetBytes(payload, "error.message"); msg.Exists() {
			return "", fmt.Errorf("vertex stream error: %s", msg.String())
		}

		// usage-only and empty safety chunks carry no text
		if text := chunkText(payload); text != "" {
			return text, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("read vertex stream: %w", err)
	}
	return "", io.EOF
}

func (s *sseStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}

func chunkText(payload []byte) string {
	var b strings.Builder
	gjson.GetBytes(payload, "candidates.0.content.parts").ForEach(func(_, p gjson.Result) bool {
		if !p.Get("thought").Bool() {
			b.WriteString(p.Get("text").String())
		}
		return true
	})
	return b.String()
}
