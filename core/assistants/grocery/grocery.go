// Package grocery fills a cart from the grocery catalog and places it as an
// order.
package grocery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	"github.com/koscakluka/ema-assist/core/cart"
	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/tools"
)

const (
	AddToCart      tools.Name = "add_to_cart"
	RemoveFromCart tools.Name = "remove_from_cart"
	GetCart        tools.Name = "get_cart"
	PlaceOrder     tools.Name = "place_order"
	TrackOrder     tools.Name = "track_order"
	FindRecipe     tools.Name = "find_recipe"
)

// StoreName identifies the grocery order log in persisted record events.
const StoreName = "grocery_orders"

type addToCartArgs struct {
	ItemName string `json:"item_name" jsonschema:"description=The name of the item as the user said it"`
	Quantity *int   `json:"quantity,omitempty" jsonschema:"description=How many to add. Defaults to 1"`
}

type removeFromCartArgs struct {
	ItemName string `json:"item_name" jsonschema:"description=The name of the item to remove"`
}

type trackOrderArgs struct {
	OrderID string `json:"order_id,omitempty" jsonschema:"description=The order id. Leave empty for the latest order"`
}

type findRecipeArgs struct {
	Dish string `json:"dish" jsonschema:"description=The dish the user wants to make"`
}

// Tools binds the grocery tool set to state, starting with an empty cart.
func Tools(env *session.Env, state *session.State, host session.Host) []tools.Tool {
	state.Cart = cart.New()
	state.LastOrderID = ""
	g := &grocery{env: env, state: state, host: host}
	return []tools.Tool{
		tools.New(AddToCart, "Add an item from the catalog to the cart.", g.addToCart),
		tools.New(RemoveFromCart, "Remove an item from the cart.", g.removeFromCart),
		tools.New(GetCart, "List the cart contents and the total.", g.getCart),
		tools.New(PlaceOrder, "Place the order for everything in the cart. Confirm with the user first.", g.placeOrder),
		tools.New(TrackOrder, "Get the status of an order.", g.trackOrder),
		tools.New(FindRecipe, "List the catalog items needed for a dish so they can be added to the cart.", g.findRecipe),
	}
}

type grocery struct {
	env   *session.Env
	state *session.State
	host  session.Host
}

func (g *grocery) addToCart(_ context.Context, args addToCartArgs) (string, error) {
	quantity := 1
	if args.Quantity != nil {
		quantity = *args.Quantity
	}
	if quantity < 1 {
		return "Quantity must be at least 1.", nil
	}

	item, ok := g.groceryCatalog().Resolve(args.ItemName)
	if !ok {
		return fmt.Sprintf("Sorry, I couldn't find %q in our catalog.", args.ItemName), nil
	}
	total, err := g.state.Cart.Add(item, quantity)
	if errors.Is(err, cart.ErrInvalidQuantity) {
		return fmt.Sprintf("You can have at most %d of %s. You now have %d.", cart.MaxQuantity, item.Name, total), nil
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %d %s to your cart. You now have %d.", quantity, item.Name, total), nil
}

func (g *grocery) removeFromCart(_ context.Context, args removeFromCartArgs) (string, error) {
	item, err := g.state.Cart.Remove(args.ItemName)
	if err != nil {
		return fmt.Sprintf("%s is not in your cart.", strings.TrimSpace(args.ItemName)), nil
	}
	return fmt.Sprintf("Removed %s from your cart.", item.Name), nil
}

func (g *grocery) getCart(_ context.Context, _ tools.NoArgs) (string, error) {
	return g.state.Cart.Describe(), nil
}

func (g *grocery) placeOrder(ctx context.Context, _ tools.NoArgs) (string, error) {
	c := g.state.Cart
	if c.Empty() {
		return "Your cart is empty. Add some items before placing an order.", nil
	}

	order := records.GroceryOrder{
		ID:        shortuuid.New(),
		Total:     c.Total(),
		Status:    records.OrderReceived,
		Timestamp: g.env.Time(),
	}
	for _, line := range c.Lines() {
		order.Items = append(order.Items, records.OrderItem{
			ItemID:    line.Item.ID,
			Name:      line.Item.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Item.UnitPrice,
		})
	}

	err := g.env.Pool.Do(ctx, "grocery_orders.append", func(ctx context.Context) error {
		return g.env.Stores.GroceryOrders.Append(ctx, order)
	})
	if err != nil {
		return "", fmt.Errorf("save grocery order: %w", err)
	}
	c.Clear()
	g.state.LastOrderID = order.ID
	g.host.Persisted(StoreName, order.ID)

	return fmt.Sprintf("Order placed successfully! Your order ID is %s. Total: %s.", order.ID, cart.FormatMoney(order.Total)), nil
}

func (g *grocery) trackOrder(ctx context.Context, args trackOrderArgs) (string, error) {
	id := strings.TrimSpace(args.OrderID)
	type lookup struct {
		order records.GroceryOrder
		found bool
	}

	result, err := store.Run(ctx, g.env.Pool, "grocery_orders.last", func(ctx context.Context) (lookup, error) {
		order, found, err := g.env.Stores.GroceryOrders.Last(ctx, func(o records.GroceryOrder) bool {
			return id == "" || o.ID == id
		})
		return lookup{order: order, found: found}, err
	})
	if err != nil {
		return "", fmt.Errorf("read grocery orders: %w", err)
	}

	if !result.found {
		if id == "" {
			return "There are no orders yet.", nil
		}
		return fmt.Sprintf("I couldn't find an order with ID %s.", id), nil
	}

	o := result.order
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return fmt.Sprintf("Order %s is %s. It has %d items totalling %s and was placed at %s.",
		o.ID, o.Status, count, cart.FormatMoney(o.Total), o.Timestamp.Format("15:04 on Jan 2")), nil
}

func (g *grocery) findRecipe(_ context.Context, args findRecipeArgs) (string, error) {
	items, ok := g.groceryCatalog().Recipe(args.Dish)
	if !ok {
		dishes := g.groceryCatalog().Dishes()
		if len(dishes) == 0 {
			return fmt.Sprintf("I don't have a recipe for %s.", args.Dish), nil
		}
		return fmt.Sprintf("I don't have a recipe for %s. I know %s.", args.Dish, strings.Join(dishes, ", ")), nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, fmt.Sprintf("%s (%s)", item.Name, cart.FormatMoney(item.UnitPrice)))
	}
	return fmt.Sprintf("For %s you need: %s. Ask the user which ones to add.", strings.TrimSpace(args.Dish), strings.Join(names, ", ")), nil
}

func (g *grocery) groceryCatalog() *catalog.Grocery {
	if g.env == nil || g.env.Catalog == nil {
		return nil
	}
	return g.env.Catalog.Grocery
}
