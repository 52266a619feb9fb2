package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiModelClient is a ModelClient backed by the Google Gemini API.
type geminiModelClient struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiModelClient creates a new instance of geminiModelClient.
func NewGeminiModelClient(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) ModelClient {
	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Gemini.MaxRequestPerMinute > 0 {
		secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
		requestLimiter = rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	}

	return &geminiModelClient{
		cfg:            cfg,
		logger:         log,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}
}

func (c *geminiModelClient) GenerateJSON(ctx context.Context, prompt StructuredPrompt) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.User, genai.RoleUser),
	}

	tokenResp, err := c.genAiClient.Models.CountTokens(ctx, c.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	c.logger.Debug("Gemini token count",
		logger.StringField("step", prompt.Step),
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", c.tokenLimiter.GetRemaining()),
	)

	if err := c.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := c.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if c.cfg.Gemini.MaxTokenPerMinute > 0 && int(tokenResp.TotalTokens) > c.cfg.Gemini.MaxTokenPerMinute/2 {
		c.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", c.tokenLimiter.GetRemaining()))
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.cfg.AI.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   prompt.Schema,
	}
	if prompt.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := c.genAiClient.Models.GenerateContent(ctx, c.cfg.Gemini.Model, contents, genCfg)
	if err != nil {
		c.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err), logger.StringField("step", prompt.Step))
		return "", fmt.Errorf("failed to send request to Gemini API: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no content found in Gemini response")
	}
	return text, nil
}
