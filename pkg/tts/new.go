package tts

import "fmt"

// Provider names accepted by New.
const (
	NameOpenAI     = "openai"
	NameElevenLabs = "elevenlabs"
)

// New builds the named provider.
func New(name string, opts ...Option) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case NameOpenAI:
		p, err = NewOpenAI(opts...)
	case NameElevenLabs:
		p, err = NewElevenLabs(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
