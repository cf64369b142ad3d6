// Package execution submits learner code to a Judge0 instance.
package execution

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrNotConfigured indicates JUDGE0_API_KEY is unset.
	ErrNotConfigured = errors.New("judge0 api key not configured")
	// ErrUpstream indicates Judge0 answered with a non-2xx status.
	ErrUpstream = errors.New("judge0 request failed")
)

// Config selects the Judge0 endpoint.
type Config struct {
	APIKey  string
	APIHost string
	BaseURL string
	Timeout time.Duration
}

// Submission is one run request.
type Submission struct {
	Code     string
	Language string
	Stdin    string
}

// Result is the decoded Judge0 response.
type Result struct {
	Output            string
	Error             string
	Status            int
	StatusDescription string
}

// Client talks to Judge0 through RapidAPI style headers.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiHost    string
	baseURL    string
}

// NewClient creates a Judge0 client. An empty key is allowed and reported per call.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: telemetry.HTTPClient(timeout),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		apiHost:    strings.TrimSpace(cfg.APIHost),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
	}
}

type submissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin,omitempty"`
}

type submissionResponse struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs one submission synchronously.
func (c *Client) Execute(ctx context.Context, sub Submission) (result Result, err error) {
	if c.apiKey == "" {
		return Result{}, ErrNotConfigured
	}

	languageID := LanguageID(sub.Language)
	ctx, span := telemetry.StartSpan(ctx, "judge0.submit",
		attribute.Int("judge0.language_id", languageID),
		attribute.Int("judge0.source_length", len(sub.Code)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	payload := submissionRequest{
		LanguageID: languageID,
		SourceCode: base64.StdEncoding.EncodeToString([]byte(sub.Code)),
	}
	if sub.Stdin != "" {
		payload.Stdin = base64.StdEncoding.EncodeToString([]byte(sub.Stdin))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	query := url.Values{"base64_encoded": {"true"}, "wait": {"true"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("decode judge0 response: %w", err)
	}

	stdout, err := decodeField(decoded.Stdout)
	if err != nil {
		return Result{}, fmt.Errorf("decode stdout: %w", err)
	}
	stderr, err := decodeField(decoded.Stderr)
	if err != nil {
		return Result{}, fmt.Errorf("decode stderr: %w", err)
	}
	compileOutput, err := decodeField(decoded.CompileOutput)
	if err != nil {
		return Result{}, fmt.Errorf("decode compile output: %w", err)
	}

	errText := strings.TrimSpace(stderr)
	if errText == "" {
		errText = strings.TrimSpace(compileOutput)
	}

	span.SetAttributes(attribute.Int("judge0.status_id", decoded.Status.ID))
	return Result{
		Output:            strings.TrimSpace(stdout),
		Error:             errText,
		Status:            decoded.Status.ID,
		StatusDescription: decoded.Status.Description,
	}, nil
}

// decodeField decodes a base64 Judge0 field. Judge0 wraps long values in newlines.
func decodeField(raw *string) (string, error) {
	if raw == nil || *raw == "" {
		return "", nil
	}
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(*raw)
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
