// Package snapshot saves and restores a single JSON document, replacing it
// whole on every save.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/koscakluka/ema-assist/core/store"
)

var ErrNotFound = errors.New("no snapshot saved")

// File holds one document of type T at path.
type File[T any] struct {
	path string
	mu   sync.Mutex
}

func New[T any](path string) *File[T] {
	return &File[T]{path: path}
}

func (f *File[T]) Path() string {
	return f.path
}

// Save overwrites the stored document with doc. Nothing is written once ctx
// is done, including while waiting for another writer.
func (f *File[T]) Save(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return store.WriteFileAtomic(f.path, data)
}

// Load reads the stored document. It returns ErrNotFound when nothing has
// been saved yet, and an error for unreadable content.
func (f *File[T]) Load(ctx context.Context) (T, error) {
	var doc T
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return doc, ErrNotFound
	} else if err != nil {
		return doc, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to decode snapshot %s: %w", f.path, err)
	}
	return doc, nil
}
