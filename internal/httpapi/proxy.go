package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/assistant"
	"github.com/Rahi-sm99/CodeQuest/internal/execution"
)

const (
	executeTimeout = 30 * time.Second
	assistTimeout  = 30 * time.Second
)

// Executor runs learner code against the remote judge.
type Executor interface {
	Execute(ctx context.Context, sub execution.Submission) (execution.Result, error)
}

type executeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdin    string `json:"stdin"`
}

// executeResponse always carries output, error and status, even when empty.
type executeResponse struct {
	Success           bool   `json:"success"`
	Output            string `json:"output"`
	Error             string `json:"error"`
	Status            int    `json:"status"`
	StatusDescription string `json:"statusDescription,omitempty"`
}

type executeFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func executeCode(executor Executor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req executeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, executeFailure{Error: err.Error()})
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			writeJSON(w, http.StatusBadRequest, executeFailure{Error: "code is required"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), executeTimeout)
		defer cancel()

		result, err := executor.Execute(ctx, execution.Submission{Code: req.Code, Language: req.Language, Stdin: req.Stdin})
		if errors.Is(err, execution.ErrNotConfigured) {
			writeJSON(w, http.StatusInternalServerError, executeFailure{Error: "Judge0 API key not configured. Set JUDGE0_API_KEY in server env."})
			return
		}
		if err != nil {
			logRequestError(r.Context(), logger, "code execution failed", err, clientIDFromContext(r.Context()))
			writeJSON(w, http.StatusInternalServerError, executeFailure{Error: "Code execution failed. Using demo mode."})
			return
		}

		writeJSON(w, http.StatusOK, executeResponse{
			Success:           true,
			Output:            result.Output,
			Error:             result.Error,
			Status:            result.Status,
			StatusDescription: result.StatusDescription,
		})
	}
}

type chatRequest struct {
	UserMessage  string `json:"userMessage"`
	Code         string `json:"code"`
	Language     string `json:"language"`
	TestResults  string `json:"testResults"`
	ErrorMessage string `json:"errorMessage"`
}

type chatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func chat(service *assistant.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, chatResponse{Message: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), assistTimeout)
		defer cancel()

		reply, err := service.Chat(ctx, assistant.ChatRequest{
			UserMessage:  req.UserMessage,
			Code:         req.Code,
			Language:     req.Language,
			TestResults:  req.TestResults,
			ErrorMessage: req.ErrorMessage,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, chatResponse{Success: true, Message: strings.TrimSpace(reply)})
		case errors.Is(err, assistant.ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, chatResponse{Message: "userMessage is required"})
		case errors.Is(err, assistant.ErrNotConfigured):
			writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Generative AI API key not configured. Set GOOGLE_GENERATIVE_AI_API_KEY in server env."})
		default:
			logRequestError(r.Context(), logger, "chat generation failed", err, clientIDFromContext(r.Context()))
			writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Chat service is temporarily unavailable. Try again!"})
		}
	}
}

type analyzeRequest struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	ErrorOutput string `json:"errorOutput"`
}

type analyzeResponse struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis"`
}

func analyzeError(service *assistant.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, analyzeResponse{Analysis: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), assistTimeout)
		defer cancel()

		analysis, err := service.AnalyzeError(ctx, assistant.AnalyzeRequest{
			Code:        req.Code,
			Language:    req.Language,
			ErrorOutput: req.ErrorOutput,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: strings.TrimSpace(analysis)})
		case errors.Is(err, assistant.ErrEmptyErrorOutput):
			writeJSON(w, http.StatusBadRequest, analyzeResponse{Analysis: "errorOutput is required"})
		case errors.Is(err, assistant.ErrNotConfigured):
			writeJSON(w, http.StatusInternalServerError, analyzeResponse{Analysis: "Generative AI API key not configured. Set GOOGLE_GENERATIVE_AI_API_KEY in server env."})
		default:
			logRequestError(r.Context(), logger, "error analysis failed", err, clientIDFromContext(r.Context()))
			writeJSON(w, http.StatusInternalServerError, analyzeResponse{Analysis: "Error analysis unavailable"})
		}
	}
}
