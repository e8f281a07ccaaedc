package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Aliases   []string        `json:"aliases,omitempty"`
	UnitPrice decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
}

// Grocery is the store's item list plus dishes mapped to their ingredients.
type Grocery struct {
	items   []Item
	byID    map[string]int
	recipes map[string][]string
}

type groceryFile struct {
	Items   []Item              `json:"items"`
	Recipes map[string][]string `json:"recipes"`
}

func ParseGrocery(data []byte) (*Grocery, error) {
	var file groceryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode grocery catalog: %w", err)
	}
	return NewGrocery(file.Items, file.Recipes)
}

// NewGrocery validates items and recipes and copies them into a Grocery.
func NewGrocery(items []Item, recipes map[string][]string) (*Grocery, error) {
	if len(items) == 0 {
		return nil, errors.New("grocery catalog has no items")
	}

	g := &Grocery{
		items:   make([]Item, 0, len(items)),
		byID:    make(map[string]int, len(items)),
		recipes: make(map[string][]string, len(recipes)),
	}
	for _, item := range items {
		switch {
		case strings.TrimSpace(item.ID) == "":
			return nil, fmt.Errorf("item %q has no id", item.Name)
		case strings.TrimSpace(item.Name) == "":
			return nil, fmt.Errorf("item %s has no name", item.ID)
		case item.UnitPrice.IsNegative():
			return nil, fmt.Errorf("item %s has a negative price", item.ID)
		}
		if _, ok := g.byID[item.ID]; ok {
			return nil, fmt.Errorf("duplicate item id %s", item.ID)
		}
		item.Aliases = slices.Clone(item.Aliases)
		g.byID[item.ID] = len(g.items)
		g.items = append(g.items, item)
	}

	for dish, ids := range recipes {
		for _, id := range ids {
			if _, ok := g.byID[id]; !ok {
				return nil, fmt.Errorf("recipe %q references unknown item %s", dish, id)
			}
		}
		g.recipes[normalize(dish)] = slices.Clone(ids)
	}

	return g, nil
}

// Items returns every item in catalog order.
func (g *Grocery) Items() []Item {
	if g == nil {
		return nil
	}
	items := make([]Item, len(g.items))
	for i, item := range g.items {
		item.Aliases = slices.Clone(item.Aliases)
		items[i] = item
	}
	return items
}

func (g *Grocery) Item(id string) (Item, bool) {
	if g == nil {
		return Item{}, false
	}
	i, ok := g.byID[id]
	if !ok {
		return Item{}, false
	}
	return g.items[i], true
}

// Resolve finds the item a spoken name refers to. An exact match on name or
// alias wins. Otherwise the first item, in catalog order, whose name or alias
// contains the query or is contained in it is returned.
func (g *Grocery) Resolve(query string) (Item, bool) {
	if g == nil {
		return Item{}, false
	}
	q := normalize(query)
	if q == "" {
		return Item{}, false
	}

	for _, item := range g.items {
		for _, name := range item.names() {
			if name == q {
				return item, true
			}
		}
	}
	for _, item := range g.items {
		for _, name := range item.names() {
			if strings.Contains(name, q) || strings.Contains(q, name) {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Recipe returns the ingredients listed for dish.
func (g *Grocery) Recipe(dish string) ([]Item, bool) {
	if g == nil {
		return nil, false
	}
	d := normalize(dish)
	if d == "" {
		return nil, false
	}

	ids, ok := g.recipes[d]
	if !ok {
		for _, name := range g.Dishes() {
			if strings.Contains(d, name) || strings.Contains(name, d) {
				ids, ok = g.recipes[name], true
				break
			}
		}
	}
	if !ok {
		return nil, false
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, g.items[g.byID[id]])
	}
	return items, true
}

// Dishes lists the known dishes alphabetically.
func (g *Grocery) Dishes() []string {
	if g == nil {
		return nil
	}
	dishes := make([]string, 0, len(g.recipes))
	for dish := range g.recipes {
		dishes = append(dishes, dish)
	}
	sort.Strings(dishes)
	return dishes
}

func (i Item) names() []string {
	names := make([]string, 0, len(i.Aliases)+1)
	names = append(names, normalize(i.Name))
	for _, alias := range i.Aliases {
		if a := normalize(alias); a != "" {
			names = append(names, a)
		}
	}
	return names
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
