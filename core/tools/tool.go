// Package tools defines the contract between the language model and the
// assistants: named tools with a JSON schema for their arguments and a typed
// handler that returns the text to narrate.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Name identifies a tool. Every assistant declares its names as constants.
type Name string

// Definition is what the language model sees of a tool.
type Definition struct {
	Name        Name               `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Handler runs a tool with raw JSON arguments.
type Handler func(ctx context.Context, arguments json.RawMessage) (string, error)

type Tool struct {
	Definition
	handler Handler
}

// Call is one invocation chosen by the language model.
type Call struct {
	ID        string          `json:"id,omitempty"`
	Name      Name            `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// New builds a tool whose arguments decode into Args. Pointer and omitempty
// fields of Args are optional in the generated schema.
//
// fn returns the text to narrate for every outcome the caller should hear
// about, including refusals. A non-nil error means the tool could not do
// its job because something below it failed.
func New[Args any](name Name, description string, fn func(ctx context.Context, args Args) (string, error)) Tool {
	return Tool{
		Definition: Definition{
			Name:        name,
			Description: description,
			Parameters:  schemaFor[Args](),
		},
		handler: func(ctx context.Context, arguments json.RawMessage) (string, error) {
			args, err := decodeArguments[Args](arguments)
			if err != nil {
				return "", err
			}
			return fn(ctx, args)
		},
	}
}

// NoArgs is the argument type of tools without parameters.
type NoArgs struct{}

// Execute decodes arguments and runs the tool.
func (t Tool) Execute(ctx context.Context, arguments json.RawMessage) (string, error) {
	if t.handler == nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, t.Name)
	}
	return t.handler(ctx, arguments)
}

func schemaFor[Args any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: false,
	}
	schema := reflector.Reflect(new(Args))
	schema.Version = ""
	schema.ID = ""
	return schema
}

func decodeArguments[Args any](raw json.RawMessage) (Args, error) {
	var args Args
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return args, nil
	}

	// Some models double encode the arguments object as a JSON string.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		trimmed = []byte(strings.TrimSpace(inner))
		if len(trimmed) == 0 {
			return args, nil
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&args); err != nil {
		return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if decoder.More() {
		return args, fmt.Errorf("%w: trailing data", ErrInvalidArguments)
	}
	return args, nil
}
