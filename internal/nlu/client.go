package nlu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"

	"bodega_voz/internal/config"
)

var ErrNotConfigured = errors.New("extraction service is not configured")

// Client turns a finalized utterance into a structured Command by calling
// the language model. It fails closed: any transport or parse problem is an
// error and no partial command ever comes back.
type Client struct {
	client  *openrouter.Client
	model   string
	logger  *zap.Logger
	enabled bool
}

func NewClient(cfg config.Config, logger *zap.Logger) (*Client, error) {
	logger = logger.Named("nlu")
	model := strings.TrimSpace(cfg.LLMModel)
	apiKey := strings.TrimSpace(cfg.LLMAPIKey)

	if model == "" || apiKey == "" {
		logger.Warn("extraction config is incomplete; voice commands will be disabled",
			zap.Bool("has_model", model != ""),
			zap.Bool("has_api_key", apiKey != ""),
		)
		return &Client{
			model:  model,
			logger: logger,
		}, nil
	}

	cfgClient := openrouter.DefaultConfig(apiKey)
	if strings.TrimSpace(cfg.LLMBaseURL) != "" {
		cfgClient.BaseURL = strings.TrimSpace(cfg.LLMBaseURL)
	}
	cfgClient.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:  openrouter.NewClientWithConfig(*cfgClient),
		model:   model,
		logger:  logger,
		enabled: true,
	}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Extract sends one utterance and returns the structured command. Called at
// most once per finalized utterance; the caller bounds the context deadline.
func (c *Client) Extract(ctx context.Context, utterance string) (Command, error) {
	if c == nil || !c.enabled || c.client == nil {
		return Command{}, ErrNotConfigured
	}

	request := openrouter.ChatCompletionRequest{
		Model: c.model,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.SystemMessage(systemPrompt),
			openrouter.UserMessage(utterance),
		},
		ResponseFormat: &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return Command{}, fmt.Errorf("extraction call: %w", err)
	}
	if resp.Usage != nil {
		c.logger.Debug("extraction usage",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)
	}
	if len(resp.Choices) == 0 {
		return Command{}, errors.New("extraction returned no choices")
	}

	cmd, err := decodeCommand(resp.Choices[0].Message.Content.Text)
	if err != nil {
		return Command{}, err
	}

	c.logger.Info("utterance extracted",
		zap.String("utterance", utterance),
		zap.String("command", string(cmd.Kind)),
		zap.Int("products", len(cmd.Products)),
	)
	return cmd, nil
}
