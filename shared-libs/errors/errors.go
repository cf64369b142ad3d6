package errors

import "net/http"

// Canonical error codes used in ErrorResponse.Code.
const (
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeUnprocessable = "unprocessable"
	CodeBadGateway    = "bad_gateway"
	CodeInternal      = "internal"
)

// ErrorResponse represents the canonical error envelope returned by CodeQuest APIs.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// New builds an ErrorResponse.
func New(code, message, requestID string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, RequestID: requestID}
}

// Status returns the HTTP status for the response code.
func (e ErrorResponse) Status() int {
	return ToStatusCode(e.Code)
}

// ToStatusCode maps a domain specific error code to an HTTP status for default responses.
func ToStatusCode(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case CodeBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
