// Package voice decides which voice speaks each utterance.
//
// Tools never touch the speech output directly. They request a voice
// change, and the Selector applies the most recent request when the next
// utterance begins. An utterance keeps the voice it started with until it
// ends.
package voice

import (
	"errors"
	"fmt"
	"strings"
)

type Mode string

const (
	Learn     Mode = "learn"
	Quiz      Mode = "quiz"
	TeachBack Mode = "teach_back"
)

// Modes lists the tutor modes in presentation order. The first one is the
// starting mode.
func Modes() []Mode {
	return []Mode{Learn, Quiz, TeachBack}
}

// ParseMode accepts the mode names with spaces or dashes in place of
// underscores, ignoring case.
func ParseMode(s string) (Mode, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, m := range Modes() {
		if string(m) == normalized {
			return m, true
		}
	}
	return "", false
}

// Voice identifies a synthesizer voice, for example "aura-orion-en".
type Voice string

const DefaultVoice Voice = "aura-orion-en"

// Map is the static assignment of a voice to every mode.
type Map struct {
	voices map[Mode]Voice
}

func DefaultMap() Map {
	m, _ := NewMap(map[Mode]Voice{
		Learn:     "aura-orion-en",
		Quiz:      "aura-asteria-en",
		TeachBack: "aura-arcas-en",
	})
	return m
}

// NewMap checks that every mode has a voice.
func NewMap(voices map[Mode]Voice) (Map, error) {
	m := Map{voices: make(map[Mode]Voice, len(voices))}
	var missing []string
	for _, mode := range Modes() {
		v := Voice(strings.TrimSpace(string(voices[mode])))
		if v == "" {
			missing = append(missing, string(mode))
			continue
		}
		m.voices[mode] = v
	}
	if len(missing) > 0 {
		return Map{}, fmt.Errorf("no voice for modes: %s", strings.Join(missing, ", "))
	}
	return m, nil
}

func (m Map) Voice(mode Mode) (Voice, bool) {
	v, ok := m.voices[mode]
	return v, ok
}

// Signal asks the speech output to use Voice from the next utterance on.
type Signal struct {
	Mode  Mode
	Voice Voice
}

var ErrBlankVoice = errors.New("voice is empty")
