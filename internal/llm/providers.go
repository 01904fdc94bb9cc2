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

	"github.com/sony/gobreaker"
)

// Provider is an external LLM completion backend
type Provider interface {
	Name() string
	Confidence() float64
	Complete(ctx context.Context, prompt string) (string, error)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return raw, nil
}

// ========================================
// OpenAI
// ========================================

type openAIProvider struct {
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a chat-completions backed provider
func NewOpenAIProvider(apiKey string, timeout time.Duration) Provider {
	return &openAIProvider{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: newBreaker("openai"),
	}
}

func (p *openAIProvider) Name() string        { return "openai" }
func (p *openAIProvider) Confidence() float64 { return 0.85 }

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		raw, err := postJSON(ctx, p.client, "https://api.openai.com/v1/chat/completions",
			map[string]string{"Authorization": "Bearer " + p.apiKey},
			map[string]interface{}{
				"model":       "gpt-4",
				"messages":    []map[string]string{{"role": "user", "content": prompt}},
				"temperature": 0.3,
			})
		if err != nil {
			return nil, err
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Choices) == 0 {
			return nil, fmt.Errorf("empty completion response")
		}
		return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// ========================================
// Anthropic
// ========================================

type anthropicProvider struct {
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewAnthropicProvider creates a messages-API backed provider
func NewAnthropicProvider(apiKey string, timeout time.Duration) Provider {
	return &anthropicProvider{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: newBreaker("anthropic"),
	}
}

func (p *anthropicProvider) Name() string        { return "anthropic" }
func (p *anthropicProvider) Confidence() float64 { return 0.8 }

func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		raw, err := postJSON(ctx, p.client, "https://api.anthropic.com/v1/messages",
			map[string]string{
				"x-api-key":         p.apiKey,
				"anthropic-version": "2023-06-01",
			},
			map[string]interface{}{
				"model":      "claude-3-sonnet-20240229",
				"max_tokens": 1000,
				"messages":   []map[string]string{{"role": "user", "content": prompt}},
			})
		if err != nil {
			return nil, err
		}

		var parsed struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Content) == 0 {
			return nil, fmt.Errorf("empty completion response")
		}
		return strings.TrimSpace(parsed.Content[0].Text), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// ========================================
// Google
// ========================================

type googleProvider struct {
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewGoogleProvider creates a Gemini backed provider
func NewGoogleProvider(apiKey string, timeout time.Duration) Provider {
	return &googleProvider{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: newBreaker("google"),
	}
}

func (p *googleProvider) Name() string        { return "google" }
func (p *googleProvider) Confidence() float64 { return 0.75 }

func (p *googleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent?key=" + p.apiKey
		raw, err := postJSON(ctx, p.client, url, nil,
			map[string]interface{}{
				"contents": []map[string]interface{}{
					{"parts": []map[string]string{{"text": prompt}}},
				},
			})
		if err != nil {
			return nil, err
		}

		var parsed struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("empty completion response")
		}
		return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
