package grocery

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/store/jsonlog"
	"github.com/koscakluka/ema-assist/core/tools"
)

func TestAddResolvesCatalogNames(t *testing.T) {
	registry, state, _ := newGrocery(t)

	assert.Equal(t, "Added 2 Organic Bananas to your cart. You now have 2.", call(t, registry, AddToCart, `{"item_name":"Organic Bananas","quantity":2}`))
	assert.Equal(t, "Added 1 Whole Milk to your cart. You now have 1.", call(t, registry, AddToCart, `{"item_name":"milk"}`))
	assert.Contains(t, call(t, registry, AddToCart, `{"item_name":"Unicorn Meat"}`), "couldn't find")
	assert.Equal(t, "Quantity must be at least 1.", call(t, registry, AddToCart, `{"item_name":"milk","quantity":0}`))

	assert.Equal(t, 2, state.Cart.Quantity("prod_001"))
	assert.Equal(t, 1, state.Cart.Quantity("prod_002"))
}

func TestAddToCartRejectsOversizedQuantities(t *testing.T) {
	registry, state, _ := newGrocery(t)

	assert.Equal(t, "Added 1 Whole Milk to your cart. You now have 1.", call(t, registry, AddToCart, `{"item_name":"milk"}`))
	assert.Equal(t, "You can have at most 999 of Whole Milk. You now have 1.",
		call(t, registry, AddToCart, `{"item_name":"milk","quantity":9223372036854775807}`))
	assert.Equal(t, "You can have at most 999 of Whole Milk. You now have 1.",
		call(t, registry, AddToCart, `{"item_name":"milk","quantity":999}`))

	assert.Equal(t, 1, state.Cart.Quantity("prod_002"))
	assert.True(t, state.Cart.Total().Equal(decimal.RequireFromString("3.99")))
}

func TestCartTotalIsExact(t *testing.T) {
	registry, state, _ := newGrocery(t)

	call(t, registry, AddToCart, `{"item_name":"bananas"}`)
	call(t, registry, AddToCart, `{"item_name":"Whole Milk"}`)

	assert.True(t, state.Cart.Total().Equal(decimal.RequireFromString("4.68")))
	assert.Equal(t, "Your cart:\n- 1 x Organic Bananas ($0.69 each)\n- 1 x Whole Milk ($3.99 each)\nTotal: $4.68", call(t, registry, GetCart, ""))
}

func TestRemoveFromCart(t *testing.T) {
	registry, state, _ := newGrocery(t)

	call(t, registry, AddToCart, `{"item_name":"bread"}`)
	assert.Equal(t, "Removed Sourdough Bread from your cart.", call(t, registry, RemoveFromCart, `{"item_name":"sourdough"}`))
	assert.Equal(t, "bread is not in your cart.", call(t, registry, RemoveFromCart, `{"item_name":"bread"}`))
	assert.True(t, state.Cart.Empty())
}

func TestPlaceAndTrackOrder(t *testing.T) {
	ctx := context.Background()
	registry, state, log := newGrocery(t)

	assert.Equal(t, "There are no orders yet.", call(t, registry, TrackOrder, ""))
	assert.Equal(t, "Your cart is empty. Add some items before placing an order.", call(t, registry, PlaceOrder, ""))

	call(t, registry, AddToCart, `{"item_name":"Organic Bananas","quantity":3}`)
	result := call(t, registry, PlaceOrder, "")
	assert.Contains(t, result, "Order placed successfully")
	assert.Contains(t, result, "Total: $2.07.")
	assert.True(t, state.Cart.Empty())

	orders, err := log.All(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	order := orders[0]
	assert.Equal(t, state.LastOrderID, order.ID)
	assert.Equal(t, records.OrderReceived, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Organic Bananas", order.Items[0].Name)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("2.07")))

	assert.Contains(t, call(t, registry, TrackOrder, ""), "is received")
	assert.Contains(t, call(t, registry, TrackOrder, `{"order_id":"`+order.ID+`"}`), "Order "+order.ID+" is received. It has 3 items totalling $2.07")
	assert.Equal(t, "I couldn't find an order with ID nope.", call(t, registry, TrackOrder, `{"order_id":"nope"}`))
}

func TestFindRecipe(t *testing.T) {
	registry, _, _ := newGrocery(t)

	assert.Equal(t,
		"For grilled cheese you need: Sourdough Bread ($4.49), Cheddar Cheese ($4.99), Butter ($4.29). Ask the user which ones to add.",
		call(t, registry, FindRecipe, `{"dish":"grilled cheese"}`))
	assert.Contains(t, call(t, registry, FindRecipe, `{"dish":"sushi"}`), "I don't have a recipe for sushi. I know grilled cheese")
}

func TestPlaceOrderGoesThroughPool(t *testing.T) {
	pool := store.NewPool(store.WithWorkers(1))
	t.Cleanup(pool.Close)

	registry, _, log := newGrocery(t, func(env *session.Env) { env.Pool = pool })

	call(t, registry, AddToCart, `{"item_name":"eggs"}`)
	call(t, registry, PlaceOrder, "")

	orders, err := log.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func newGrocery(t *testing.T, opts ...func(*session.Env)) (*tools.Registry, *session.State, *jsonlog.Log[records.GroceryOrder]) {
	t.Helper()

	log := jsonlog.New[records.GroceryOrder](filepath.Join(t.TempDir(), "grocery_orders.json"))
	env := &session.Env{
		Catalog: catalog.Default(),
		Stores:  session.Stores{GroceryOrders: log},
		Now:     func() time.Time { return time.Date(2025, 11, 7, 18, 5, 0, 0, time.UTC) },
	}
	for _, opt := range opts {
		opt(env)
	}
	state := session.NewState()

	registry, err := tools.NewRegistry(Tools(env, state, session.NopHost{})...)
	require.NoError(t, err)
	return registry, state, log
}

func call(t *testing.T, registry *tools.Registry, name tools.Name, arguments string) string {
	t.Helper()

	result, err := registry.Execute(context.Background(), name, json.RawMessage(arguments))
	require.NoError(t, err, "tool %s", name)
	return result
}
