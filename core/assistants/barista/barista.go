// Package barista takes a coffee order one detail at a time and saves it
// once every required detail is known.
package barista

import (
	"context"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/slots"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/lithammer/shortuuid/v4"
)

const (
	UpdateOrder tools.Name = "update_order"
	SubmitOrder tools.Name = "submit_order"
)

// StoreName identifies the drink order log in persisted record events.
const StoreName = "drink_orders"

const (
	fieldDrinkType = "drinkType"
	fieldSize      = "size"
	fieldMilk      = "milk"
	fieldExtras    = "extras"
	fieldName      = "name"
)

func NewForm() *slots.Form {
	return slots.New(
		slots.Field{Key: fieldDrinkType, Label: "drink type", Required: true},
		slots.Field{Key: fieldSize, Label: "size", Required: true},
		slots.Field{Key: fieldMilk, Label: "milk", Required: true},
		slots.Field{Key: fieldExtras, Label: "extras", List: true},
		slots.Field{Key: fieldName, Label: "name", Required: true},
	)
}

type updateOrderArgs struct {
	DrinkType string   `json:"drink_type,omitempty" jsonschema:"description=The type of beverage such as Latte or Cappuccino"`
	Size      string   `json:"size,omitempty" jsonschema:"description=The size of the drink such as Small or Large"`
	Milk      string   `json:"milk,omitempty" jsonschema:"description=The type of milk such as Oat or Whole"`
	Extras    []string `json:"extras,omitempty" jsonschema:"description=Extra additions such as sugar or an extra shot"`
	Name      string   `json:"name,omitempty" jsonschema:"description=The customer's name for the cup"`
}

// Tools binds the barista tool set to state, starting a fresh order.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.Form = NewForm()
	b := &barista{env: env, state: state, host: host}
	return []tools.Tool{
		tools.New(UpdateOrder, "Update the current order with new details provided by the user. Only pass the details that were mentioned.", b.updateOrder),
		tools.New(SubmitOrder, "Finalize and save the order. Call this only when drink type, size, milk and name are filled and confirmed.", b.submitOrder),
	}
}

type barista struct {
	env   *session.Env
	state *session.State
	host  session.Host
}

func (b *barista) updateOrder(_ context.Context, args updateOrderArgs) (string, error) {
	form := b.state.Form
	for key, value := range map[string]string{
		fieldDrinkType: args.DrinkType,
		fieldSize:      args.Size,
		fieldMilk:      args.Milk,
		fieldName:      args.Name,
	} {
		if _, err := form.Set(key, value); err != nil {
			return "", err
		}
	}
	if _, err := form.Append(fieldExtras, args.Extras...); err != nil {
		return "", err
	}

	result := "Order updated. Current order: " + form.Describe() + "."
	if missing := form.MissingLabels(); len(missing) > 0 {
		result += " Still needed: " + strings.Join(missing, ", ") + "."
	} else {
		result += " All details are in, confirm the order with the user."
	}
	return result, nil
}

func (b *barista) submitOrder(ctx context.Context, _ tools.NoArgs) (string, error) {
	form := b.state.Form
	if missing := form.MissingLabels(); len(missing) > 0 {
		return fmt.Sprintf("Cannot submit order yet. Missing details: %s. Please ask the user for these.", strings.Join(missing, ", ")), nil
	}

	order := records.DrinkOrder{
		ID:        shortuuid.New(),
		DrinkType: form.Value(fieldDrinkType),
		Size:      form.Value(fieldSize),
		Milk:      form.Value(fieldMilk),
		Extras:    form.List(fieldExtras),
		Name:      form.Value(fieldName),
		Status:    records.OrderReceived,
		Timestamp: b.env.Time(),
	}
	if order.Extras == nil {
		order.Extras = []string{}
	}

	err := b.env.Pool.Do(ctx, "drink_orders.append", func(ctx context.Context) error {
		return b.env.Stores.DrinkOrders.Append(ctx, order)
	})
	if err != nil {
		return "", fmt.Errorf("save drink order: %w", err)
	}
	b.host.Persisted(StoreName, order.ID)

	return fmt.Sprintf("Order %s saved. Tell %s their %s %s is confirmed!", order.ID, order.Name, strings.ToLower(order.Size), order.DrinkType), nil
}
