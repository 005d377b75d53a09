// ABOUTME: OpenAI client for query embeddings and chat completions
// ABOUTME: Every call runs under its own timeout; retries are opt-in via MaxRetries
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harper/book-concierge/internal/models"
	"github.com/harper/book-concierge/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = openai.GPT3Dot5Turbo
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultTimeout bounds a single network call
	DefaultTimeout = 30 * time.Second
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        DefaultTimeout,
		MaxRetries:     0,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	temperature    float32
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(oc),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		temperature:    config.Temperature,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// ChatModel returns the configured completion model
func (c *OpenAIClient) ChatModel() string { return c.chatModel }

// Embed returns the embedding vector for text
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return classify(err)
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return errors.New("no embeddings returned")
		}

		embedding = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return embedding, nil
}

// Complete sends the role-tagged messages and returns the first choice verbatim
func (c *OpenAIClient) Complete(ctx context.Context, messages []models.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    toChatMessages(messages),
		Temperature: c.temperature,
	}
	// A zero temperature is left out of the request so the service default applies

	var content string
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}

		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return content, nil
}

func toChatMessages(messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// classify marks client errors other than rate limiting as not worth retrying
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return util.Permanent(err)
	}
	return err
}
