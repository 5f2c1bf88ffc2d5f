package tts

import (
	"context"
	"encoding/json"
	"time"
)

const (
	openAISpeechURL = "https://api.openai.com/v1/audio/speech"

	// OpenAIVoice and OpenAIModel are the defaults for NewOpenAI.
	OpenAIVoice = "shimmer"
	OpenAIModel = "tts-1"
)

// OpenAI synthesizes MP3 through the OpenAI speech endpoint.
type OpenAI struct {
	url   string
	voice string
	model string
	ep    *endpoint
}

// NewOpenAI returns an OpenAI provider. WithFormat is ignored.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	s, err := newSettings(OpenAIVoice, OpenAIModel, openAISpeechURL, opts)
	if err != nil {
		return nil, err
	}
	ep := newEndpoint(NameOpenAI, s, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	}, decodeOpenAIError)
	return &OpenAI{url: s.baseURL, voice: s.voice, model: s.model, ep: ep}, nil
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()
	audio, err := o.ep.post(ctx, o.url, map[string]any{
		"model":           o.model,
		"voice":           o.voice,
		"input":           text,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, err
	}
	clip := &Clip{Text: text, Audio: audio, Encoding: EncodingMP3, Latency: time.Since(start)}
	o.ep.logger.Debug("synthesized phrase", "text", text, "bytes", len(audio), "latency", clip.Latency)
	return clip, nil
}

func (o *OpenAI) Close() error {
	o.ep.close()
	return nil
}

// Voice returns the configured voice.
func (o *OpenAI) Voice() string { return o.voice }

func decodeOpenAIError(body []byte) (string, string) {
	var resp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &resp) != nil {
		return "", ""
	}
	return resp.Error.Code, resp.Error.Message
}

var _ Provider = (*OpenAI)(nil)
