package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// APIError means the service rejected the call or could not be reached:
// quota, authentication, invalid argument, network failure.
type APIError struct {
	// StatusCode is the HTTP status, zero for transport failures.
	StatusCode int
	// Message is the service's error message.
	Message string
	// Details holds the service's structured error details, one JSON
	// document per entry.
	Details []string
	Err     error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "gemini: " + e.Message
	}
	return fmt.Sprintf("gemini: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// DetailText joins the structured details, or returns "" if there are none.
func (e *APIError) DetailText() string {
	return strings.Join(e.Details, "; ")
}

// ResponseError means the call succeeded but carried no usable text.
type ResponseError struct {
	Reason       string
	FinishReason string
}

func (e *ResponseError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("gemini: %s (finish reason %s)", e.Reason, e.FinishReason)
	}
	return "gemini: " + e.Reason
}

func newAPIError(status int, err error) *APIError {
	apiErr := &APIError{StatusCode: status, Message: err.Error(), Err: err}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return apiErr
	}
	if gerr.Message != "" {
		apiErr.Message = gerr.Message
	} else if body := strings.TrimSpace(gerr.Body); body != "" {
		apiErr.Message = truncate(body, 200)
	} else {
		apiErr.Message = http.StatusText(status)
	}
	for _, d := range gerr.Details {
		b, err := json.Marshal(d)
		if err != nil {
			continue
		}
		apiErr.Details = append(apiErr.Details, string(b))
	}
	return apiErr
}

// friendlyTransportError shortens common network failures.
func friendlyTransportError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused"
	case strings.Contains(msg, "no such host"):
		return "host not found"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "Client.Timeout"):
		return "request timed out"
	case strings.Contains(msg, "reset by peer"):
		return "connection reset by server"
	}
	return msg
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
