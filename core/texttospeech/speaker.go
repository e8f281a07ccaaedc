package texttospeech

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/koscakluka/ema-assist/core/voice"
)

// Synthesizer produces the audio for a single utterance.
type Synthesizer interface {
	Synthesize(ctx context.Context, utterance voice.Utterance, text string, opts ...TextToSpeechOption) error
}

// Speaker narrates text through a Synthesizer. Each call is one utterance,
// and utterances never overlap.
type Speaker struct {
	selector    *voice.Selector
	synthesizer Synthesizer

	mu sync.Mutex
}

func NewSpeaker(selector *voice.Selector, synthesizer Synthesizer) *Speaker {
	return &Speaker{selector: selector, synthesizer: synthesizer}
}

// Speak waits for the previous utterance to finish, starts a new one (which
// picks up any requested voice change) and synthesizes text in its voice.
func (s *Speaker) Speak(ctx context.Context, text string, opts ...TextToSpeechOption) (voice.Utterance, error) {
	if s == nil || s.selector == nil {
		return voice.Utterance{}, fmt.Errorf("speaker not configured")
	}
	if strings.TrimSpace(text) == "" {
		return voice.Utterance{}, fmt.Errorf("nothing to say")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	utterance := s.selector.Begin()
	if s.synthesizer == nil {
		return utterance, nil
	}
	if err := s.synthesizer.Synthesize(ctx, utterance, text, opts...); err != nil {
		return utterance, fmt.Errorf("failed to synthesize utterance %d: %w", utterance.Seq, err)
	}
	return utterance, nil
}
