package errors

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// TimestampLayout is the format of APIError.Timestamp.
const TimestampLayout = "02-01-2006 15:04:05"

// APIError is the body of every error response.
type APIError struct {
	Status       string  `json:"status"`
	Timestamp    string  `json:"timestamp"`
	Message      string  `json:"message"`
	DebugMessage *string `json:"debugMessage"`
}

// Envelope wraps an APIError under the "apierror" key.
type Envelope struct {
	APIError APIError `json:"apierror"`
}

// StatusName returns the symbolic name of an HTTP status, e.g. "NOT_FOUND".
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// ToEnvelope converts err into an HTTP status code and an error envelope.
// Errors that are not *AppError become a generic internal error so that
// internal details never reach the client.
func ToEnvelope(err error, now time.Time) (int, Envelope) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ErrInternalServer
	}

	var debug *string
	if appErr.Debug != "" {
		d := appErr.Debug
		debug = &d
	}

	return appErr.StatusCode, Envelope{
		APIError: APIError{
			Status:       StatusName(appErr.StatusCode),
			Timestamp:    now.Format(TimestampLayout),
			Message:      appErr.Message,
			DebugMessage: debug,
		},
	}
}
