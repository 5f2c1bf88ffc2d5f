package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	elevenLabsURL = "https://api.elevenlabs.io/v1"

	// ElevenLabsModel is the default model, tuned for short low-latency clips.
	ElevenLabsModel = "eleven_turbo_v2_5"
	// ElevenLabsVoice is the default voice preset.
	ElevenLabsVoice = "rachel"
)

// elevenLabsPresets maps a few stock voice names to their ids.
var elevenLabsPresets = map[string]string{
	"rachel":    "21m00Tcm4TlvDq8ikWAM",
	"sarah":     "EXAVITQu4vr4xnSDxMaL",
	"charlotte": "XB0fDUnXU5powFXDhCwa",
	"josh":      "TxGEqnHWrfWFTfGW9XjX",
}

// ElevenLabs synthesizes speech through the ElevenLabs API.
type ElevenLabs struct {
	baseURL string
	voice   string
	model   string
	format  Encoding
	ep      *endpoint
}

// NewElevenLabs returns an ElevenLabs provider. The voice may be a preset
// name or a raw voice id.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	s, err := newSettings(ElevenLabsVoice, ElevenLabsModel, elevenLabsURL, opts)
	if err != nil {
		return nil, err
	}
	voice := s.voice
	if id, ok := elevenLabsPresets[voice]; ok {
		voice = id
	}
	ep := newEndpoint(NameElevenLabs, s, map[string]string{
		"xi-api-key": s.apiKey,
		"Accept":     s.format.MIME(),
	}, decodeElevenLabsError)
	return &ElevenLabs{baseURL: s.baseURL, voice: voice, model: s.model, format: s.format, ep: ep}, nil
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", e.baseURL, e.voice, e.format)
	audio, err := e.ep.post(ctx, url, map[string]any{
		"text":     text,
		"model_id": e.model,
		// Alerts should sound the same every time.
		"voice_settings": map[string]any{
			"stability":         0.8,
			"similarity_boost":  0.75,
			"use_speaker_boost": true,
		},
	})
	if err != nil {
		return nil, err
	}
	clip := &Clip{Text: text, Audio: audio, Encoding: e.format, Latency: time.Since(start)}
	e.ep.logger.Debug("synthesized phrase", "text", text, "bytes", len(audio), "latency", clip.Latency)
	return clip, nil
}

func (e *ElevenLabs) Close() error {
	e.ep.close()
	return nil
}

// Voice returns the resolved voice id.
func (e *ElevenLabs) Voice() string { return e.voice }

func decodeElevenLabsError(body []byte) (string, string) {
	var resp struct {
		Detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"detail"`
	}
	if json.Unmarshal(body, &resp) != nil {
		return "", ""
	}
	return resp.Detail.Status, resp.Detail.Message
}

var _ Provider = (*ElevenLabs)(nil)
