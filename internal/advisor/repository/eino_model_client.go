package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/pkg/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// einoModelClient is a ModelClient backed by an eino chat model (OpenAI or
// DeepSeek). These providers get the schema in the prompt instead of as a
// native response schema.
type einoModelClient struct {
	provider       string
	chatModel      model.BaseChatModel
	requestLimiter *rate.Limiter
	logger         *logger.Logger
}

// NewEinoModelClient creates a ModelClient around chatModel.
func NewEinoModelClient(provider string, chatModel model.BaseChatModel, maxRequestPerMinute int, log *logger.Logger) ModelClient {
	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if maxRequestPerMinute > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequestPerMinute)), 1)
	}
	return &einoModelClient{
		provider:       provider,
		chatModel:      chatModel,
		requestLimiter: requestLimiter,
		logger:         log,
	}
}

func (c *einoModelClient) GenerateJSON(ctx context.Context, prompt StructuredPrompt) (string, error) {
	if err := c.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	system := prompt.System
	if prompt.Schema != nil {
		schemaJSON, err := json.Marshal(prompt.Schema)
		if err != nil {
			return "", fmt.Errorf("failed to marshal response schema: %w", err)
		}
		system += "\n\nRespond with JSON only, no prose and no markdown fences. The JSON must match this schema:\n" + string(schemaJSON)
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(prompt.User),
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		c.logger.Error("Failed to generate chat completion",
			logger.ErrorField(err),
			logger.StringField("provider", c.provider),
			logger.StringField("step", prompt.Step),
		)
		return "", fmt.Errorf("failed to send request to %s: %w", c.provider, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("no content found in %s response", c.provider)
	}

	c.logger.Debug("Chat completion received",
		logger.StringField("provider", c.provider),
		logger.StringField("step", prompt.Step),
		logger.IntField("length", len(resp.Content)),
	)
	return resp.Content, nil
}
