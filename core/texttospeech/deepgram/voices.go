package deepgram

import (
	"slices"

	"github.com/koscakluka/ema-assist/core/voice"
)

const defaultVoice voice.Voice = "aura-orion-en"

// GetAvailableVoices lists the Aura voices the speak endpoint accepts.
func GetAvailableVoices() []voice.Voice {
	return []voice.Voice{
		"aura-asteria-en",
		"aura-luna-en",
		"aura-stella-en",
		"aura-athena-en",
		"aura-hera-en",
		"aura-orion-en",
		"aura-arcas-en",
		"aura-perseus-en",
		"aura-angus-en",
		"aura-orpheus-en",
		"aura-helios-en",
		"aura-zeus-en",
	}
}

func IsAvailableVoice(v voice.Voice) bool {
	return slices.Contains(GetAvailableVoices(), v)
}
