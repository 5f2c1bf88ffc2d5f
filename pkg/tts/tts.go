// Package tts synthesizes the spoken alert phrases.
//
// A Provider turns a short phrase into one complete audio clip. There are
// only two alert phrases, so Cache memoizes clips per phrase and only the
// first alert of each kind waits on the network.
//
//	provider, _ := tts.New("openai", tts.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	speech := tts.NewCache(provider)
//	defer speech.Close()
//
//	clip, _ := speech.Synthesize(ctx, "Please wake up")
//	// clip.Audio is MP3, ready for a player command
package tts

import (
	"context"
	"time"
)

// Provider synthesizes speech.
type Provider interface {
	// Synthesize returns the whole clip for text.
	Synthesize(ctx context.Context, text string) (*Clip, error)

	// Close releases idle connections.
	Close() error
}

// Clip is one synthesized phrase.
type Clip struct {
	Text     string
	Audio    []byte
	Encoding Encoding
	Latency  time.Duration
}

// Duration estimates playback length. It is zero for compressed audio.
func (c *Clip) Duration() time.Duration {
	rate := c.Encoding.SampleRate()
	if !c.Encoding.IsPCM() || rate == 0 {
		return 0
	}
	samples := len(c.Audio) / 2
	return time.Duration(samples) * time.Second / time.Duration(rate)
}

// Encoding names an output format the way ElevenLabs spells it.
type Encoding string

const (
	EncodingMP3   Encoding = "mp3_44100_128"
	EncodingPCM16 Encoding = "pcm_16000"
	EncodingPCM24 Encoding = "pcm_24000"
)

// IsPCM reports whether the clip is raw 16-bit mono PCM.
func (e Encoding) IsPCM() bool {
	return e == EncodingPCM16 || e == EncodingPCM24
}

// SampleRate returns the sample rate in Hz, or 0 if unknown.
func (e Encoding) SampleRate() int {
	switch e {
	case EncodingPCM16:
		return 16000
	case EncodingPCM24:
		return 24000
	case EncodingMP3:
		return 44100
	}
	return 0
}

// Extension returns a file extension audio players recognise.
func (e Encoding) Extension() string {
	if e.IsPCM() {
		return ".pcm"
	}
	return ".mp3"
}

// MIME returns the Accept header value for the encoding.
func (e Encoding) MIME() string {
	if e.IsPCM() {
		return "audio/pcm"
	}
	return "audio/mpeg"
}
