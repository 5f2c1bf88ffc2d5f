package tts

import (
	"context"
	"sync"
	"time"
)

// Fake is an offline Provider returning silent PCM, 20ms per character.
// Err, when set, is returned instead.
type Fake struct {
	mu    sync.Mutex
	Err   error
	texts []string
}

func (f *Fake) Synthesize(ctx context.Context, text string) (*Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.Err != nil {
		return nil, f.Err
	}
	// 24kHz 16-bit mono: 960 bytes per 20ms
	return &Clip{
		Text:     text,
		Audio:    make([]byte, len(text)*960),
		Encoding: EncodingPCM24,
		Latency:  time.Millisecond,
	}, nil
}

func (f *Fake) Close() error { return nil }

// SetErr changes the error returned by later calls.
func (f *Fake) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

// Requests returns every text passed to Synthesize.
func (f *Fake) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

var _ Provider = (*Fake)(nil)
