package inference

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIOption configures an OpenAI client.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	token        string
	baseURL      string
	model        string
	systemPrompt string
	httpClient   *http.Client
	logger       *zap.Logger
}

// WithAPIKey sets the bearer token.
func WithAPIKey(token string) OpenAIOption {
	return func(cfg *openAIConfig) {
		cfg.token = token
	}
}

// WithBaseURL points the client at an OpenAI-compatible server, such as a
// local Ollama or LocalAI instance ("http://localhost:11434/v1").
func WithBaseURL(url string) OpenAIOption {
	return func(cfg *openAIConfig) {
		cfg.baseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// WithChatModel selects the chat model.
func WithChatModel(model string) OpenAIOption {
	return func(cfg *openAIConfig) {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			cfg.model = trimmed
		}
	}
}

// WithSystemPrompt prepends a system message to every request.
func WithSystemPrompt(prompt string) OpenAIOption {
	return func(cfg *openAIConfig) {
		cfg.systemPrompt = prompt
	}
}

// WithOpenAIHTTPClient supplies the underlying HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(cfg *openAIConfig) {
		cfg.httpClient = client
	}
}

// WithOpenAILogger attaches a logger.
func WithOpenAILogger(logger *zap.Logger) OpenAIOption {
	return func(cfg *openAIConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// OpenAI generates text with the chat completion API. Images travel as a
// data URL content part next to the prompt.
type OpenAI struct {
	client       *openai.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

var _ Client = (*OpenAI)(nil)

// NewOpenAI builds an OpenAI client.
func NewOpenAI(options ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{model: DefaultModel, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	config := openai.DefaultConfig(cfg.token)
	if cfg.baseURL != "" {
		config.BaseURL = cfg.baseURL
	}
	if cfg.httpClient != nil {
		config.HTTPClient = cfg.httpClient
	}

	return &OpenAI{
		client:       openai.NewClientWithConfig(config),
		model:        cfg.model,
		systemPrompt: cfg.systemPrompt,
		logger:       cfg.logger,
	}
}

// Generate returns the content of the first completion choice.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var messages []openai.ChatCompletionMessage
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
	}
	messages = append(messages, userMessage(req))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		o.logger.Error("chat completion failed", zap.String("model", o.model), zap.Error(err))
		return "", fmt.Errorf("inference: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	o.logger.Debug("chat completion",
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}

func userMessage(req Request) openai.ChatCompletionMessage {
	if req.Image == nil {
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt}
	}
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    req.Image.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	}
}
