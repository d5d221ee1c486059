package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrMalformedResponse matches every *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed AI response")
	// ErrBlocked is returned when the provider refused or filtered the answer.
	ErrBlocked       = errors.New("response blocked by the AI provider")
	ErrMissingAPIKey = errors.New("AI api key not configured")
	ErrEmptyPrompt   = errors.New("prompt required")
)

// MalformedResponseError describes an answer that was empty, not JSON, or did not match
// the declared schema.
type MalformedResponseError struct {
	Op      string
	Reason  string
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
	if e.Snippet != "" {
		msg += " (payload snippet: " + e.Snippet + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(op, reason, payload string, err error) error {
	return &MalformedResponseError{Op: op, Reason: reason, Snippet: summarizePayloadSnippet(payload), Err: err}
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ai request: http %d: %s", e.StatusCode, summarizePayloadSnippet(e.Body))
}

// StatusCode extracts the HTTP status of a failed request, or 0.
func StatusCode(err error) int {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// UserMessage renders err as a short sentence for an alert.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "No AI API key configured. Run `studyboard config set-api-key`."
	case errors.Is(err, ErrBlocked):
		return "The AI provider blocked this request. Try rephrasing it."
	case errors.Is(err, ErrMalformedResponse):
		return "The AI returned an answer that could not be read. Please try again."
	}
	switch code := StatusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "The AI API key was rejected."
	case code == http.StatusTooManyRequests:
		return "The AI service is rate limiting requests. Wait a moment and try again."
	case code >= http.StatusInternalServerError:
		return "The AI service is unavailable right now."
	}
	return "AI request failed: " + strings.TrimSpace(err.Error())
}
