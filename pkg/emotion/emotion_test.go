package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"angry":        "Angry",
		"Angry.":       "Angry",
		"  HAPPY\n":    "Happy",
		"surprised":    "Surprise",
		"\"neutral\"":  "Neutral",
		"sleepy":       Unknown,
		"":             Unknown,
		"angry or sad": Unknown,
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatic(t *testing.T) {
	got, err := NewStatic("neutral").Classify(context.Background(), nil)
	if err != nil || got != "Neutral" {
		t.Errorf("Classify() = %q, %v; want Neutral, nil", got, err)
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	if _, err := NewGemini(""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewGemini(\"\") error = %v, want ErrNoAPIKey", err)
	}
}

func geminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "g-key" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		if !strings.HasSuffix(r.URL.Path, "/gemini-test:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGemini_Classify(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Angry\n"}]}}]}`)
	g, err := NewGemini("g-key", WithBaseURL(srv.URL), WithModel("gemini-test"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := g.Classify(context.Background(), []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != "Angry" {
		t.Errorf("Classify() = %q, want Angry", got)
	}
}

func TestGemini_ClassifyErrorsYieldUnknown(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"message":"quota","code":429}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := geminiServer(t, tc.status, tc.body)
			g, _ := NewGemini("g-key", WithBaseURL(srv.URL), WithModel("gemini-test"))

			got, err := g.Classify(context.Background(), []byte{1})
			if err == nil {
				t.Error("expected error")
			}
			if got != Unknown {
				t.Errorf("Classify() = %q, want Unknown", got)
			}
		})
	}
}
