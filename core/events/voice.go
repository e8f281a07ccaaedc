package events

const (
	// KindVoiceChangeRequested identifies a pending voice change.
	KindVoiceChangeRequested Kind = "voice.change_requested"
	// KindVoiceChanged identifies a voice change taking effect.
	KindVoiceChanged Kind = "voice.changed"
)

// VoiceChangeRequested marks a voice change waiting for the next utterance.
type VoiceChangeRequested struct {
	Base
	Mode  string
	Voice string
}

// NewVoiceChangeRequested creates a voice change requested event.
func NewVoiceChangeRequested(conversationID, mode, voice string) VoiceChangeRequested {
	return VoiceChangeRequested{Base: NewBase(KindVoiceChangeRequested, conversationID), Mode: mode, Voice: voice}
}

// VoiceChanged marks the utterance from which a new voice is used.
type VoiceChanged struct {
	Base
	From      string
	To        string
	Mode      string
	Utterance uint64
}

// NewVoiceChanged creates a voice changed event.
func NewVoiceChanged(conversationID, from, to, mode string, utterance uint64) VoiceChanged {
	return VoiceChanged{Base: NewBase(KindVoiceChanged, conversationID), From: from, To: to, Mode: mode, Utterance: utterance}
}
