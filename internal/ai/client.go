// Package ai wraps the generative backend behind a small Client interface
// with an OpenAI-compatible implementation and an Ollama implementation,
// selected by configuration.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codequest-server/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

// ErrGenerationFailed wraps transient backend failures after retries ran out.
var ErrGenerationFailed = errors.New("AI generation failed")

// Schema is a JSON schema passed to the backend's constrained-output mode.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

// Client is the opaque generation capability the services depend on.
// GenerateText returns free text; GenerateStructured biases the backend
// toward the given JSON shape and returns the raw response body. Neither
// parses or repairs output, that belongs to the callers.
type Client interface {
	GenerateText(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error)
	GenerateStructured(ctx context.Context, systemPrompt, userInput string, schema *Schema, temperature float32) (string, error)
}

// Config holds backend selection and tuning for the client factory.
type Config struct {
	ClientType string // "openai" or "ollama"
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient builds a Client from configuration. A missing API key for the
// OpenAI backend yields a disabled client whose calls fail with
// models.ErrAINotConfigured without ever dialing the backend.
func NewClient(cfg Config) (Client, error) {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	switch strings.ToLower(cfg.ClientType) {
	case "", "openai":
		if cfg.APIKey == "" {
			log.Warn().Msg("AI API key is not set, generation is disabled")
			return &disabledClient{}, nil
		}
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		log.Info().Str("baseURL", clientConfig.BaseURL).Str("model", cfg.Model).Msg("OpenAI client created")
		return &openAIClient{
			client:     openai.NewClientWithConfig(clientConfig),
			model:      cfg.Model,
			timeout:    cfg.Timeout,
			maxRetries: cfg.MaxRetries,
		}, nil
	case "ollama":
		return newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown AI client type: %q", cfg.ClientType)
	}
}

// --- OpenAI implementation ---

type openAIClient struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
}

func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	return c.complete(ctx, systemPrompt, userInput, nil, temperature)
}

func (c *openAIClient) GenerateStructured(ctx context.Context, systemPrompt, userInput string, schema *Schema, temperature float32) (string, error) {
	return c.complete(ctx, systemPrompt, userInput, schema, temperature)
}

func (c *openAIClient) complete(ctx context.Context, systemPrompt, userInput string, schema *Schema, temperature float32) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return "", fmt.Errorf("%w: system prompt is empty", ErrGenerationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
		Temperature: temperature,
	}
	if userInput != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: userInput,
		})
	}
	if schema != nil {
		schemaJSON, err := json.Marshal(schema.Definition)
		if err != nil {
			return "", fmt.Errorf("failed to marshal response schema %s: %w", schema.Name, err)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(schemaJSON),
				Strict: true,
			},
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, req)
		duration := time.Since(start)

		if err != nil {
			log.Error().Err(err).Int("attempt", attempt).Dur("duration", duration).Msg("AI request failed")
			observeRequest(c.model, "error", duration)
			lastErr = err
			if attempt < c.maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
			}
			continue
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			log.Warn().Int("attempt", attempt).Msg("AI returned an empty response")
			observeRequest(c.model, "error_empty_response", duration)
			lastErr = errors.New("empty response from API")
			if attempt < c.maxRetries {
				time.Sleep(time.Duration(attempt) * time.Second)
			}
			continue
		}

		observeRequest(c.model, "success", duration)
		observeTokens(c.model, systemPrompt, userInput, resp)
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, c.maxRetries, lastErr)
}

// --- Ollama implementation ---

type ollamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

func newOllamaClient(cfg Config) (Client, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/v1")
	baseURL = strings.TrimSuffix(baseURL, "/")
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL %q: %w", baseURL, err)
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	log.Info().Str("baseURL", baseURL).Str("model", cfg.Model).Msg("Ollama client created")
	return &ollamaClient{
		client:  api.NewClient(parsedURL, httpClient),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *ollamaClient) GenerateText(ctx context.Context, systemPrompt, userInput string, temperature float32) (string, error) {
	return c.chat(ctx, systemPrompt, userInput, nil, temperature)
}

func (c *ollamaClient) GenerateStructured(ctx context.Context, systemPrompt, userInput string, schema *Schema, temperature float32) (string, error) {
	return c.chat(ctx, systemPrompt, userInput, schema, temperature)
}

func (c *ollamaClient) chat(ctx context.Context, systemPrompt, userInput string, schema *Schema, temperature float32) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return "", fmt.Errorf("%w: system prompt is empty", ErrGenerationFailed)
	}

	messages := []api.Message{{Role: "system", Content: systemPrompt}}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": float64(temperature),
		},
	}
	if schema != nil {
		schemaJSON, err := json.Marshal(schema.Definition)
		if err != nil {
			return "", fmt.Errorf("failed to marshal response schema %s: %w", schema.Name, err)
		}
		req.Format = json.RawMessage(schemaJSON)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Ollama request failed")
		observeRequest(c.model, "error", duration)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if resp.Message.Content == "" {
		observeRequest(c.model, "error_empty_response", duration)
		return "", fmt.Errorf("%w: empty response from Ollama", ErrGenerationFailed)
	}

	observeRequest(c.model, "success", duration)
	observeOllamaTokens(c.model, resp)
	return resp.Message.Content, nil
}

// --- Disabled implementation ---

// disabledClient stands in when no credentials are configured. Every call
// fails fast with ErrAINotConfigured; the remote backend is never reached.
type disabledClient struct{}

func (d *disabledClient) GenerateText(context.Context, string, string, float32) (string, error) {
	return "", models.ErrAINotConfigured
}

func (d *disabledClient) GenerateStructured(context.Context, string, string, *Schema, float32) (string, error) {
	return "", models.ErrAINotConfigured
}
