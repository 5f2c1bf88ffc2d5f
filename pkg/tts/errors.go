package tts

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoAPIKey        = errors.New("tts: API key required")
	ErrUnknownProvider = errors.New("tts: unknown provider")
)

// APIError is a non-200 response from a provider.
type APIError struct {
	Provider string
	Status   int
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tts %s: status %d (%s): %s", e.Provider, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("tts %s: status %d: %s", e.Provider, e.Status, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Unauthorized reports a rejected API key.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func wrap(provider string, err error) error {
	return fmt.Errorf("tts %s: %w", provider, err)
}
