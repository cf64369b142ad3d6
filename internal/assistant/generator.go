package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rahi-sm99/CodeQuest/internal/telemetry"
	"google.golang.org/genai"
)

var (
	// ErrNotConfigured indicates GOOGLE_GENERATIVE_AI_API_KEY is unset.
	ErrNotConfigured = errors.New("generative ai api key not configured")
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Generator produces one completion for a system instruction and prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeminiConfig wires Gemini access.
type GeminiConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiGenerator returns a Generator backed by Gemini.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model, maxTokens: maxTokens}, nil
}

// Generate sends a single-turn request.
func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (output string, err error) {
	ctx, span := telemetry.StartLLMSpan(ctx, "gemini.generate", g.model)
	span.SetInput(prompt)
	defer func() {
		span.SetOutput(output)
		span.End(err)
	}()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.95)),
		MaxOutputTokens:   int32(g.maxTokens),
	})
	if err != nil {
		return "", err
	}
	output = strings.TrimSpace(resp.Text())
	if output == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}

// Unconfigured is used when no API key is set. Every call fails with ErrNotConfigured.
type Unconfigured struct{}

// Generate always returns ErrNotConfigured.
func (Unconfigured) Generate(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}
