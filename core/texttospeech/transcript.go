package texttospeech

import (
	"context"
	"slices"
	"sync"

	"github.com/koscakluka/ema-assist/core/voice"
)

// Spoken is an utterance recorded by Transcript.
type Spoken struct {
	Seq   uint64
	Voice voice.Voice
	Text  string
}

// Transcript is a Synthesizer that keeps the text of every utterance
// instead of producing audio. The console and tests narrate through it.
type Transcript struct {
	mu     sync.Mutex
	spoken []Spoken
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Synthesize(ctx context.Context, utterance voice.Utterance, text string, _ ...TextToSpeechOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spoken = append(t.spoken, Spoken{Seq: utterance.Seq, Voice: utterance.Voice, Text: text})
	return nil
}

func (t *Transcript) Utterances() []Spoken {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.spoken)
}

// Last returns the most recent utterance.
func (t *Transcript) Last() (Spoken, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.spoken) == 0 {
		return Spoken{}, false
	}
	return t.spoken[len(t.spoken)-1], true
}
