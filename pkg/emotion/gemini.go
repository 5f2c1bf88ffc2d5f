package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/teslashibe/go-focus/internal/httpc"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-2.0-flash"

	prompt = "Classify the dominant facial expression of the person in this image. " +
		"Answer with exactly one word from: angry, disgust, fear, happy, sad, surprise, neutral."
)

// ErrNoAPIKey is returned when the Gemini API key is missing.
var ErrNoAPIKey = errors.New("emotion: GOOGLE_API_KEY not set")

// Gemini classifies faces with Gemini Flash.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// GeminiOption configures a Gemini classifier.
type GeminiOption func(*Gemini)

// WithModel overrides the Gemini model.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL overrides the models endpoint.
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) {
		g.baseURL = url
	}
}

// WithTimeout sets the HTTP timeout for one classification.
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *Gemini) {
		g.client.Timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(g *Gemini) {
		g.logger = logger
	}
}

// NewGemini creates a Gemini classifier.
func NewGemini(apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	g := &Gemini{
		apiKey:  apiKey,
		model:   geminiModel,
		baseURL: geminiBaseURL,
		client:  httpc.New(5 * time.Second),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "emotion.gemini")
	return g, nil
}

// Classify sends the face to Gemini and normalises the one-word answer.
func (g *Gemini) Classify(ctx context.Context, face []byte) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
					{"inline_data": map[string]string{
						"mime_type": "image/jpeg",
						"data":      base64.StdEncoding.EncodeToString(face),
					}},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0,
			"maxOutputTokens": 5,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Unknown, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Unknown, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Unknown, fmt.Errorf("read response: %w", err)
	}

	var result geminiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return Unknown, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || result.Error.Message != "" {
		return Unknown, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, truncate(result.Error.Message, 200))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return Unknown, errors.New("gemini returned no candidates")
	}

	answer := result.Candidates[0].Content.Parts[0].Text
	label := Normalize(answer)
	g.logger.Debug("classified face", "label", label, "raw", answer, "latency_ms", time.Since(start).Milliseconds())
	return label, nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

var _ Classifier = (*Gemini)(nil)
