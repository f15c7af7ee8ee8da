package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider talks to a local Ollama server, for deployments that
// cannot send prompts to a hosted API.
type OllamaProvider struct {
	client      *http.Client
	baseURL     string
	opts        Options
	backoffBase time.Duration
}

func NewOllamaProvider(baseURL string, opts Options) *OllamaProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:11434"
	}
	opts = opts.withDefaults("mistral")

	return &OllamaProvider{
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return generateWithRetry(ctx, p.Name(), p.backoffBase, func(ctx context.Context) (string, error) {
		return p.generate(ctx, prompt)
	})
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model: p.opts.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: ollamaOptions{Temperature: p.opts.Temperature},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{provider: p.Name(), status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if parsed.Message.Content == "" {
		return "", fmt.Errorf("ollama response contains no message content")
	}

	return parsed.Message.Content, nil
}
