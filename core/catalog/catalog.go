// Package catalog holds the read-only reference data the assistants answer
// from: grocery items and recipes, company facts and tutor concepts.
//
// A Catalog is built once at startup and shared by every conversation. None
// of its methods mutate it.
package catalog

import (
	"context"
	"embed"
	"fmt"
	"os"
)

//go:embed defaults/*.json
var defaults embed.FS

// Paths locates the catalog sources on disk. Empty paths use the built-in
// defaults.
type Paths struct {
	Grocery string
	Company string
	Tutor   string
}

type Catalog struct {
	Grocery *Grocery
	Company *Company
	Tutor   *Tutor
}

// Load reads every source in paths. A source that is missing or unreadable
// is replaced by its built-in default and logged as a warning.
func Load(ctx context.Context, paths Paths) *Catalog {
	return &Catalog{
		Grocery: loadSource(ctx, "grocery", paths.Grocery, ParseGrocery),
		Company: loadSource(ctx, "company", paths.Company, ParseCompany),
		Tutor:   loadSource(ctx, "tutor", paths.Tutor, ParseTutor),
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return Load(context.Background(), Paths{})
}

func loadSource[T any](ctx context.Context, kind, path string, parse func([]byte) (T, error)) T {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			parsed, err := parse(data)
			if err == nil {
				return parsed
			}
			logger.WarnContext(ctx, "catalog source is invalid, using default", "kind", kind, "path", path, "error", err)
		} else {
			logger.WarnContext(ctx, "catalog source is unavailable, using default", "kind", kind, "path", path, "error", err)
		}
	}

	parsed, err := parseDefault(kind, parse)
	if err != nil {
		panic(err)
	}
	return parsed
}

func parseDefault[T any](kind string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := defaults.ReadFile("defaults/" + kind + ".json")
	if err != nil {
		return zero, fmt.Errorf("missing default %s catalog: %w", kind, err)
	}
	parsed, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("invalid default %s catalog: %w", kind, err)
	}
	return parsed, nil
}
