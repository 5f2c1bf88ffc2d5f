package alert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/tts"
)

// Speaker synthesizes the alert phrase and plays it with a player command
// such as afplay, mpg123 or ffplay.
type Speaker struct {
	provider tts.Provider
	player   []string
}

// NewSpeaker wraps provider in a phrase cache and plays audio with player.
func NewSpeaker(provider tts.Provider, player string) (*Speaker, error) {
	fields := strings.Fields(player)
	if len(fields) == 0 {
		return nil, fmt.Errorf("alert: empty player command")
	}
	if _, ok := provider.(*tts.Cache); !ok {
		provider = tts.NewCache(provider)
	}
	return &Speaker{provider: provider, player: fields}, nil
}

// Warm synthesizes both alert phrases ahead of the first alert.
func (s *Speaker) Warm(ctx context.Context) error {
	c, ok := s.provider.(*tts.Cache)
	if !ok {
		return nil
	}
	return c.Warm(ctx, attention.AlertSleepy.Message(), attention.AlertDistracted.Message())
}

// Deliver synthesizes and plays the phrase, waiting for playback to end.
func (s *Speaker) Deliver(ctx context.Context, a Alert) error {
	clip, err := s.provider.Synthesize(ctx, a.Message())
	if err != nil {
		return fmt.Errorf("alert: synthesize: %w", err)
	}

	f, err := os.CreateTemp("", "go-focus-*"+clip.Encoding.Extension())
	if err != nil {
		return fmt.Errorf("alert: temp audio: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(clip.Audio); err != nil {
		f.Close()
		return fmt.Errorf("alert: write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("alert: write audio: %w", err)
	}

	args := append(append([]string(nil), s.player[1:]...), f.Name())
	if out, err := exec.CommandContext(ctx, s.player[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("alert: %s: %w: %s", s.player[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Close closes the provider.
func (s *Speaker) Close() error {
	return s.provider.Close()
}

var _ Sink = (*Speaker)(nil)
