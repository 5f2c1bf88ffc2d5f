package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/teslashibe/go-focus/internal/httpc"
)

// errorDecoder extracts code and message from a provider error body.
type errorDecoder func(body []byte) (code, message string)

// endpoint posts JSON to one provider and retries 429 and 5xx with linear
// backoff.
type endpoint struct {
	name    string
	client  *http.Client
	headers map[string]string
	retries int
	backoff time.Duration
	decode  errorDecoder
	logger  *slog.Logger
}

func newEndpoint(name string, s *settings, headers map[string]string, decode errorDecoder) *endpoint {
	return &endpoint{
		name:    name,
		client:  httpc.New(s.timeout),
		headers: headers,
		retries: s.retries,
		backoff: s.backoff,
		decode:  decode,
		logger:  s.logger.With("component", "tts."+name),
	}
}

// post sends payload to url and returns the response body.
func (e *endpoint) post(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrap(e.name, err)
	}

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.backoff * time.Duration(attempt)):
			}
		}

		data, err := e.once(ctx, url, body)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
		e.logger.Warn("retrying request", "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

func (e *endpoint) once(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, wrap(e.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, wrap(e.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap(e.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Provider: e.name, Status: resp.StatusCode, Message: string(data)}
		if code, msg := e.decode(data); msg != "" {
			apiErr.Code, apiErr.Message = code, msg
		}
		return nil, apiErr
	}
	return data, nil
}

func (e *endpoint) close() {
	e.client.CloseIdleConnections()
}
