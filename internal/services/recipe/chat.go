package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/socialchef/creativechef/internal/httpclient"
	"github.com/socialchef/creativechef/internal/metrics"
)

// ChatProvider talks to any OpenAI-compatible chat completions API.
// Groq, OpenAI and Cerebras differ only in base URL, model and label.
type ChatProvider struct {
	name    ProviderType
	label   string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func newChatProvider(name ProviderType, label, baseURL, model string, cfg ProviderConfig) *ChatProvider {
	p := &ChatProvider{
		name:    name,
		label:   label,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  cfg.client(),
	}
	if p.model == "" {
		p.model = model
	}
	if p.baseURL == "" {
		p.baseURL = baseURL
	}
	return p
}

func NewGroqProvider(cfg ProviderConfig) *ChatProvider {
	return newChatProvider(ProviderGroq, "Groq", "https://api.groq.com/openai/v1", "llama-3.3-70b-versatile", cfg)
}

func NewOpenAIProvider(cfg ProviderConfig) *ChatProvider {
	return newChatProvider(ProviderOpenAI, "OpenAI", "https://api.openai.com/v1", "gpt-4o-mini", cfg)
}

func NewCerebrasProvider(cfg ProviderConfig) *ChatProvider {
	return newChatProvider(ProviderCerebras, "Cerebras", "https://api.cerebras.ai/v1", "llama-3.3-70b", cfg)
}

func (p *ChatProvider) Name() string { return string(p.name) }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as the only user message.
func (p *ChatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderCall(ctx, p.Name(), time.Since(start).Seconds())
	}()

	body, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, p.label), http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s API error (status %d): %s", p.label, resp.StatusCode, string(respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", p.label, err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from %s", p.label)
	}

	return cr.Choices[0].Message.Content, nil
}
