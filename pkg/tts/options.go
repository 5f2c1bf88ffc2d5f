package tts

import (
	"log/slog"
	"time"
)

// settings is shared by every provider. Each constructor seeds its own
// voice and model defaults before applying options.
type settings struct {
	apiKey  string
	baseURL string
	voice   string
	model   string
	format  Encoding

	timeout time.Duration
	retries int
	backoff time.Duration

	logger *slog.Logger
}

// Option configures a provider.
type Option func(*settings)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.apiKey = key }
}

// WithBaseURL points the provider at another endpoint.
func WithBaseURL(url string) Option {
	return func(s *settings) { s.baseURL = url }
}

// WithVoice selects a voice. Empty keeps the provider default.
func WithVoice(voice string) Option {
	return func(s *settings) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// WithModel selects a model. Empty keeps the provider default.
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithFormat sets the output encoding where the provider supports it.
func WithFormat(e Encoding) Option {
	return func(s *settings) { s.format = e }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithRetry retries 429 and 5xx responses up to n extra times with linear
// backoff.
func WithRetry(n int, backoff time.Duration) Option {
	return func(s *settings) {
		s.retries = n
		s.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(voice, model, baseURL string, opts []Option) (*settings, error) {
	s := &settings{
		baseURL: baseURL,
		voice:   voice,
		model:   model,
		format:  EncodingMP3,
		timeout: 15 * time.Second,
		retries: 2,
		backoff: 200 * time.Millisecond,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return s, nil
}
