package orchestration

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/voice"
)

// Say narrates text as a new utterance. A voice change requested by a tool
// takes effect here, at the start of the utterance, and never in the
// middle of one.
func (c *Conversation) Say(ctx context.Context, text string) (voice.Utterance, error) {
	if c.Ended() {
		return voice.Utterance{}, fmt.Errorf("conversation %s has ended", c.id)
	}

	ctx, span := tracer.Start(ctx, "say")
	defer span.End()

	utterance, err := c.speaker.Speak(ctx, text, c.speechOptions...)
	span.SetAttributes(
		attribute.String("conversation.id", c.id),
		attribute.String("voice", string(utterance.Voice)),
		attribute.Int64("utterance.seq", int64(utterance.Seq)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return utterance, err
	}
	return utterance, nil
}

// conversationSynthesizer reports every utterance of a conversation as
// events around the configured synthesizer.
type conversationSynthesizer struct {
	conversation *Conversation
	next         texttospeech.Synthesizer
}

func (s *conversationSynthesizer) Synthesize(ctx context.Context, utterance voice.Utterance, text string, opts ...texttospeech.TextToSpeechOption) error {
	c := s.conversation
	if change := c.takeAppliedVoice(); change != nil {
		logger.InfoContext(ctx, "voice changed",
			"conversation.id", c.id,
			"from", string(change.from),
			"to", string(change.signal.Voice),
			"utterance", utterance.Seq)
		c.emit(events.NewVoiceChanged(c.id, string(change.from), string(change.signal.Voice), string(change.signal.Mode), utterance.Seq))
	}
	c.emit(events.NewAssistantSpeechStarted(c.id, utterance.Seq, string(utterance.Voice), text))
	defer c.emit(events.NewAssistantSpeechFinal(c.id, utterance.Seq))

	if s.next == nil {
		return nil
	}

	onAudio := texttospeech.ApplyOptions(opts...).SpeechAudioCallback
	options := append(slices.Clone(opts), texttospeech.WithSpeechAudioCallback(func(audio []byte) {
		c.emit(events.NewAssistantSpeechFrame(c.id, utterance.Seq, audio))
		onAudio(audio)
	}))
	return s.next.Synthesize(ctx, utterance, text, options...)
}
