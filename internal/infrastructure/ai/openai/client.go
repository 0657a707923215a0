// Package openai talks to an OpenAI-compatible chat completions gateway
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	recipeToolName = "create_recipe"
	maxErrorBody   = 2048
)

// RequestObserver is told about every gateway call
type RequestObserver interface {
	AIRequest(operation, status string, duration time.Duration)
}

// Client implements outbound.LanguageModel
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	observer    RequestObserver
	logger      *zap.Logger
}

// NewClient creates a gateway client; observer may be nil
func NewClient(cfg config.AIConfig, observer RequestObserver, logger *zap.Logger) *Client {
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		observer: observer,
		logger:   logger.Named("ai-gateway"),
	}
}

var _ outbound.LanguageModel = (*Client)(nil)

// Chat completion wire types
type ChatCompletionRequest struct {
	Model       string      `json:"model"`
	Messages    []Message   `json:"messages"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Tools       []Tool      `json:"tools,omitempty"`
	ToolChoice  *ToolChoice `json:"tool_choice,omitempty"`
}

type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type ToolChoice struct {
	Type     string       `json:"type"`
	Function FunctionName `json:"function"`
}

type FunctionName struct {
	Name string `json:"name"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

var recipeSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "ingredients": {"type": "array", "items": {"type": "string"}},
    "instructions": {"type": "array", "items": {"type": "string"}},
    "prep_time": {"type": "string"},
    "cuisine": {"type": "string"}
  },
  "required": ["title", "ingredients", "instructions", "prep_time"]
}`)

// Complete returns the text of the first choice
func (c *Client) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	resp, err := c.call(ctx, "complete", ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages(req.System, req.Prompt),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// GenerateRecipe forces a create_recipe tool call and decodes its arguments
func (c *Client) GenerateRecipe(ctx context.Context, req outbound.RecipeRequest) (*outbound.GeneratedRecipe, error) {
	resp, err := c.call(ctx, "generate_recipe", ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages(req.System, req.Prompt),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Tools: []Tool{{
			Type: "function",
			Function: Function{
				Name:        recipeToolName,
				Description: "Generate a structured recipe based on the user's request",
				Parameters:  recipeSchema,
			},
		}},
		ToolChoice: &ToolChoice{Type: "function", Function: FunctionName{Name: recipeToolName}},
	})
	if err != nil {
		return nil, err
	}

	var call *ToolCall
	for i := range resp.Message.ToolCalls {
		if resp.Message.ToolCalls[i].Function.Name == recipeToolName {
			call = &resp.Message.ToolCalls[i]
			break
		}
	}
	if call == nil {
		return nil, outbound.ErrNoToolCall
	}

	var recipe outbound.GeneratedRecipe
	if err := json.Unmarshal([]byte(call.Function.Arguments), &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode %s arguments: %w", recipeToolName, err)
	}
	return &recipe, nil
}

func messages(system, prompt string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	return append(msgs, Message{Role: "user", Content: prompt})
}

// call posts one chat completion and returns the first choice
func (c *Client) call(ctx context.Context, operation string, body ChatCompletionRequest) (choice *Choice, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		if c.observer != nil {
			c.observer.AIRequest(operation, status, time.Since(start))
		}
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("Gateway returned an error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(text)),
		)
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errors.NewTooManyRequestsError("AI rate limit reached, please try again later")
		}
		return nil, fmt.Errorf("gateway error %d", resp.StatusCode)
	}

	var chat ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("Gateway call succeeded",
		zap.String("operation", operation),
		zap.Int("prompt_tokens", chat.Usage.PromptTokens),
		zap.Int("completion_tokens", chat.Usage.CompletionTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return &chat.Choices[0], nil
}
