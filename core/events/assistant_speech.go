package events

const (
	// KindAssistantSpeechStarted identifies the start of an utterance.
	KindAssistantSpeechStarted Kind = "assistant_speech.started"
	// KindAssistantSpeechFrame identifies synthesized assistant speech audio.
	KindAssistantSpeechFrame Kind = "assistant_speech.frame"
	// KindAssistantSpeechFinal identifies TTS generation completion.
	KindAssistantSpeechFinal Kind = "assistant_speech.final"
)

// AssistantSpeechStarted carries the text and voice of a new utterance.
type AssistantSpeechStarted struct {
	Base
	Utterance uint64
	Voice     string
	Text      string
}

// NewAssistantSpeechStarted creates an assistant speech started event.
func NewAssistantSpeechStarted(conversationID string, utterance uint64, voice, text string) AssistantSpeechStarted {
	return AssistantSpeechStarted{Base: NewBase(KindAssistantSpeechStarted, conversationID), Utterance: utterance, Voice: voice, Text: text}
}

// AssistantSpeechFrame carries a synthesized assistant speech audio frame.
type AssistantSpeechFrame struct {
	Base
	Utterance uint64
	Audio     []byte
}

// NewAssistantSpeechFrame creates an assistant speech audio frame event.
func NewAssistantSpeechFrame(conversationID string, utterance uint64, audio []byte) AssistantSpeechFrame {
	return AssistantSpeechFrame{Base: NewBase(KindAssistantSpeechFrame, conversationID), Utterance: utterance, Audio: audio}
}

// AssistantSpeechFinal marks completion of TTS generation.
type AssistantSpeechFinal struct {
	Base
	Utterance uint64
}

// NewAssistantSpeechFinal creates an assistant speech final event.
func NewAssistantSpeechFinal(conversationID string, utterance uint64) AssistantSpeechFinal {
	return AssistantSpeechFinal{Base: NewBase(KindAssistantSpeechFinal, conversationID), Utterance: utterance}
}
