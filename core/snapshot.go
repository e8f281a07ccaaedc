package orchestration

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/voice"
	"github.com/koscakluka/ema-assist/core/world"
)

// Snapshot is a point-in-time view of a conversation for display.
type Snapshot struct {
	ID           string          `json:"id"`
	Assistant    assistants.Kind `json:"assistant"`
	Voice        voice.Voice     `json:"voice"`
	PendingVoice voice.Voice     `json:"pending_voice,omitempty"`
	Hangup       string          `json:"hangup,omitempty"`

	Slots   string   `json:"slots,omitempty"`
	Missing []string `json:"missing,omitempty"`

	Cart      []CartLine       `json:"cart,omitempty"`
	CartTotal *decimal.Decimal `json:"cart_total,omitempty"`

	Mode    voice.Mode `json:"mode,omitempty"`
	Concept string     `json:"concept,omitempty"`

	Verification string `json:"verification,omitempty"`

	World *world.State `json:"world,omitempty"`
}

type CartLine struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Snapshot waits for the calls queued before it and then copies the
// session state.
func (c *Conversation) Snapshot(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	ran := c.submit(ctx, func(context.Context) {
		snapshot = c.snapshot()
	})
	if !ran {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("conversation %s has ended", c.id)
	}
	return snapshot, nil
}

func (c *Conversation) snapshot() Snapshot {
	s := Snapshot{
		ID:        c.id,
		Assistant: c.kind,
		Voice:     c.selector.Current(),
	}
	if pending, ok := c.selector.Pending(); ok {
		s.PendingVoice = pending.Voice
	}
	s.Hangup, _ = c.HangupRequested()

	state := c.state
	switch c.kind {
	case assistants.Barista, assistants.SDR:
		s.Slots = state.Form.Describe()
		s.Missing = state.Form.MissingLabels()
	case assistants.Grocery:
		for _, line := range state.Cart.Lines() {
			s.Cart = append(s.Cart, CartLine{
				ItemID:    line.Item.ID,
				Name:      line.Item.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.Item.UnitPrice,
			})
		}
		total := state.Cart.Total()
		s.CartTotal = &total
	case assistants.Tutor:
		s.Mode = state.Mode
		if concept, ok := c.orchestrator.env.Catalog.Tutor.At(state.Concept); ok {
			s.Concept = concept.ID
		}
	case assistants.Fraud:
		s.Verification = state.Case.State().String()
	case assistants.Gamemaster:
		s.World = state.World.Clone()
	}
	return s
}
