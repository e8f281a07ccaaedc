// Package assistants lists the assistants the core can run and builds the
// tool set of each one.
package assistants

import (
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/assistants/barista"
	"github.com/koscakluka/ema-assist/core/assistants/fraud"
	"github.com/koscakluka/ema-assist/core/assistants/gamemaster"
	"github.com/koscakluka/ema-assist/core/assistants/grocery"
	"github.com/koscakluka/ema-assist/core/assistants/sdr"
	"github.com/koscakluka/ema-assist/core/assistants/tutor"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/tools"
)

type Kind string

const (
	Barista    Kind = "barista"
	Tutor      Kind = "tutor"
	SDR        Kind = "sdr"
	Fraud      Kind = "fraud"
	Grocery    Kind = "grocery"
	Gamemaster Kind = "gamemaster"
)

type definition struct {
	greeting string
	tools    func(env *session.Env, state *session.State, host session.Host) []tools.Tool
}

var definitions = map[Kind]definition{
	Barista: {
		greeting: "Hi, welcome in! What can I get started for you today?",
		tools:    barista.Tools,
	},
	Tutor: {
		greeting: "Hi! I'm your tutor. We can learn, quiz or teach back. Which concept would you like to start with?",
		tools:    tutor.Tools,
	},
	SDR: {
		greeting: "Hi, thanks for reaching out! What brings you to us today?",
		tools:    sdr.Tools,
	},
	Fraud: {
		greeting: "Hello, this is the fraud prevention team at Secure Bank. May I have your name, please?",
		tools:    fraud.Tools,
	},
	Grocery: {
		greeting: "Hi! What would you like to add to your grocery order today?",
		tools:    grocery.Tools,
	},
	Gamemaster: {
		greeting: "Welcome, traveler. You stand at a dusty crossroads. What do you do?",
		tools:    gamemaster.Tools,
	},
}

// Kinds lists every assistant in a stable order.
func Kinds() []Kind {
	return []Kind{Barista, Tutor, SDR, Fraud, Grocery, Gamemaster}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := definitions[k]; !ok {
		return "", fmt.Errorf("unknown assistant %q", s)
	}
	return k, nil
}

func (k Kind) Greeting() string {
	return definitions[k].greeting
}

// Build returns the registry of kind bound to state. state is reset to what
// the assistant starts with.
func Build(kind Kind, env *session.Env, state *session.State, host session.Host) (*tools.Registry, error) {
	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown assistant %q", kind)
	}
	if host == nil {
		host = session.NopHost{}
	}
	registry, err := tools.NewRegistry(def.tools(env, state, host)...)
	if err != nil {
		return nil, fmt.Errorf("build %s tools: %w", kind, err)
	}
	return registry, nil
}
