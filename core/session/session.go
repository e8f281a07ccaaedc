// Package session holds what a single conversation accumulates and the
// shared collaborators its tools work against.
package session

import (
	"time"

	"github.com/koscakluka/ema-assist/core/cart"
	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/slots"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/store/fraudcases"
	"github.com/koscakluka/ema-assist/core/store/jsonlog"
	"github.com/koscakluka/ema-assist/core/store/snapshot"
	"github.com/koscakluka/ema-assist/core/verification"
	"github.com/koscakluka/ema-assist/core/voice"
	"github.com/koscakluka/ema-assist/core/world"
)

// State is the mutable data of one conversation. Only the tools of that
// conversation touch it, one call at a time.
type State struct {
	// Form holds the order or lead slots being filled in.
	Form *slots.Form
	Cart *cart.Cart
	Mode voice.Mode
	// Concept is the index of the current tutor concept.
	Concept int
	// Case tracks fraud verification, including the active case.
	Case  *verification.Machine
	World *world.State
	// LeadID ties lead revisions together once the first one is saved.
	LeadID string
	// LastOrderID is the most recent grocery order placed in this
	// conversation.
	LastOrderID string
}

func NewState() *State {
	return &State{
		Form:  slots.New(),
		Cart:  cart.New(),
		Mode:  voice.Modes()[0],
		Case:  verification.New(),
		World: world.New(),
	}
}

// Stores are the record stores shared by every conversation.
type Stores struct {
	DrinkOrders   *jsonlog.Log[records.DrinkOrder]
	GroceryOrders *jsonlog.Log[records.GroceryOrder]
	Leads         *jsonlog.Log[records.Lead]
	Cases         fraudcases.Repository
	GameSave      *snapshot.File[world.State]
}

// Env is the read-only environment handed to every conversation.
type Env struct {
	Catalog *catalog.Catalog
	Stores  Stores
	Pool    *store.Pool
	Voices  voice.Map
	Dice    world.Dice
	// Now stamps persisted records. Nil means time.Now.
	Now func() time.Time
}

func (e *Env) Time() time.Time {
	if e == nil || e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// Roll throws a die with the configured dice, or DefaultDice when none
// are set.
func (e *Env) Roll(sides int) (int, error) {
	if e == nil || e.Dice == nil {
		return world.DefaultDice.Roll(sides)
	}
	return e.Dice.Roll(sides)
}

// Host is the part of the running conversation tools may act on.
type Host interface {
	// RequestVoice asks for a voice change from the next utterance on.
	RequestVoice(signal voice.Signal)
	// EndCall asks the voice layer to hang up after the current reply.
	EndCall(reason string)
	// Persisted reports a durable write to the named store.
	Persisted(store, recordID string)
}

// NopHost ignores everything tools ask of it.
type NopHost struct{}

func (NopHost) RequestVoice(voice.Signal) {}
func (NopHost) EndCall(string)            {}
func (NopHost) Persisted(string, string)  {}
