package repository

import (
	"context"
	"sync"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
)

// stubModelClient answers every step with a canned payload.
type stubModelClient struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	prompts []StructuredPrompt
}

func (s *stubModelClient) GenerateJSON(_ context.Context, prompt StructuredPrompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if err := s.errs[prompt.Step]; err != nil {
		return "", err
	}
	return s.answers[prompt.Step], nil
}

func newTestAIRepository(client ModelClient) AIRepository {
	cfg := &config.Config{}
	return NewAIRepository(cfg, logger.NewNop(), metrics.NewNop(), client)
}
