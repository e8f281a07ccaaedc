package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Registry is the dispatch table of one assistant, keyed by tool name.
type Registry struct {
	tools map[Name]Tool
}

func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[Name]Tool, len(tools))}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(tool Tool) error {
	name := Name(strings.TrimSpace(string(tool.Name)))
	if name == "" {
		return ErrToolNameEmpty
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, name)
	}
	tool.Name = name
	r.tools[name] = tool
	return nil
}

func (r *Registry) Get(name Name) (Tool, bool) {
	if r == nil {
		return Tool{}, false
	}
	tool, ok := r.tools[name]
	return tool, ok
}

// Names lists the registered tools alphabetically.
func (r *Registry) Names() []Name {
	if r == nil {
		return nil
	}
	names := make([]Name, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Definitions returns what the language model needs to call the tools, in
// name order.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	definitions := make([]Definition, 0, len(names))
	for _, name := range names {
		definitions = append(definitions, r.tools[name].Definition)
	}
	return definitions
}

func (r *Registry) Execute(ctx context.Context, name Name, arguments json.RawMessage) (string, error) {
	tool, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool.Execute(ctx, arguments)
}
