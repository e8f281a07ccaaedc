// Package tutor teaches the concepts of the tutor catalog in three modes,
// each spoken with its own voice.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/core/voice"
)

const (
	SwitchMode     tools.Name = "switch_mode"
	SwitchConcept  tools.Name = "switch_concept"
	CurrentConcept tools.Name = "current_concept"
)

type switchModeArgs struct {
	Mode string `json:"mode" jsonschema:"description=The new mode to switch to,enum=learn,enum=quiz,enum=teach_back"`
}

type switchConceptArgs struct {
	ConceptID string `json:"concept_id" jsonschema:"description=The id of the concept to study"`
}

// Tools binds the tutor tool set to state, starting in the first mode with
// the first concept.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.Mode = voice.Modes()[0]
	state.Concept = 0
	t := &tutor{env: env, state: state, host: host}
	return []tools.Tool{
		tools.New(SwitchMode, "Switch the learning mode. The voice changes with the mode.", t.switchMode),
		tools.New(SwitchConcept, "Switch to another concept by id. Available ids: "+strings.Join(conceptIDs(env.Catalog), ", ")+".", t.switchConcept),
		tools.New(CurrentConcept, "Get the current concept and what to do with it in the current mode.", t.currentConcept),
	}
}

type tutor struct {
	env   *session.Env
	state *session.State
	host  session.Host
}

func (t *tutor) switchMode(_ context.Context, args switchModeArgs) (string, error) {
	mode, ok := voice.ParseMode(args.Mode)
	if !ok {
		return fmt.Sprintf("Unknown mode %q. Choose one of %s.", args.Mode, modeNames()), nil
	}
	v, ok := t.env.Voices.Voice(mode)
	if !ok {
		v, _ = voice.DefaultMap().Voice(mode)
	}

	t.state.Mode = mode
	t.host.RequestVoice(voice.Signal{Mode: mode, Voice: v})

	if concept, ok := t.concept(); ok {
		return fmt.Sprintf("Switched to %s mode. Let's continue with %s.", mode, concept.Title), nil
	}
	return fmt.Sprintf("Switched to %s mode.", mode), nil
}

func (t *tutor) switchConcept(_ context.Context, args switchConceptArgs) (string, error) {
	index, ok := t.tutorCatalog().Find(args.ConceptID)
	if !ok {
		return fmt.Sprintf("Concept %s not found.", args.ConceptID), nil
	}
	t.state.Concept = index
	concept, _ := t.concept()
	return fmt.Sprintf("Switched concept to %s.", concept.Title), nil
}

func (t *tutor) currentConcept(_ context.Context, _ tools.NoArgs) (string, error) {
	concept, ok := t.concept()
	if !ok {
		return "There are no concepts to study.", nil
	}

	switch t.state.Mode {
	case voice.Quiz:
		return fmt.Sprintf("Mode quiz, concept %s. Ask: %s", concept.Title, concept.SampleQuestion), nil
	case voice.TeachBack:
		return fmt.Sprintf("Mode teach_back, concept %s. Ask the user to explain %s in their own words, then give feedback against: %s", concept.Title, strings.ToLower(concept.Title), concept.Summary), nil
	default:
		return fmt.Sprintf("Mode learn, concept %s. Explain: %s", concept.Title, concept.Summary), nil
	}
}

func (t *tutor) concept() (catalog.Concept, bool) {
	return t.tutorCatalog().At(t.state.Concept)
}

func (t *tutor) tutorCatalog() *catalog.Tutor {
	if t.env == nil || t.env.Catalog == nil {
		return nil
	}
	return t.env.Catalog.Tutor
}

func conceptIDs(c *catalog.Catalog) []string {
	if c == nil {
		return nil
	}
	var ids []string
	for _, concept := range c.Tutor.Concepts() {
		ids = append(ids, concept.ID)
	}
	return ids
}

func modeNames() string {
	var names []string
	for _, m := range voice.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
