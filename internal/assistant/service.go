// Package assistant produces CodeBot hints and error explanations from a generative model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyMessage indicates a chat request without a question.
	ErrEmptyMessage = errors.New("user message is required")
	// ErrEmptyErrorOutput indicates an analysis request without error text.
	ErrEmptyErrorOutput = errors.New("error output is required")
)

// ChatRequest is one CodeBot question with the learner's context.
type ChatRequest struct {
	UserMessage  string
	Code         string
	Language     string
	TestResults  string
	ErrorMessage string
}

// AnalyzeRequest asks for an explanation of a failed run.
type AnalyzeRequest struct {
	Code        string
	Language    string
	ErrorOutput string
}

// Service builds prompts and delegates to a Generator. It keeps no conversation state.
type Service struct {
	generator Generator
}

// NewService creates an assistant service.
func NewService(generator Generator) *Service {
	if generator == nil {
		generator = Unconfigured{}
	}
	return &Service{generator: generator}
}

// Chat answers a learner question.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", ErrEmptyMessage
	}
	reply, err := s.generator.Generate(ctx, chatSystemPrompt, chatPrompt(req))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}

// AnalyzeError explains a compilation or runtime error.
func (s *Service) AnalyzeError(ctx context.Context, req AnalyzeRequest) (string, error) {
	if strings.TrimSpace(req.ErrorOutput) == "" {
		return "", ErrEmptyErrorOutput
	}
	analysis, err := s.generator.Generate(ctx, analyzeSystemPrompt, analyzePrompt(req))
	if err != nil {
		return "", fmt.Errorf("analyze error: %w", err)
	}
	return analysis, nil
}
