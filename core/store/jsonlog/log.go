// Package jsonlog keeps append-only record logs as a single JSON array per
// file. Every append rewrites the whole array.
package jsonlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/koscakluka/ema-assist/core/store"
)

// Log is an append-only JSON array of T stored at a single path. A Log must
// be shared by everyone appending to the same file.
type Log[T any] struct {
	path string
	mu   sync.Mutex
}

func New[T any](path string) *Log[T] {
	return &Log[T]{path: path}
}

func (l *Log[T]) Path() string {
	return l.path
}

// Append adds record to the end of the log. Unreadable existing content is
// replaced. Nothing is written once ctx is done, including while waiting
// for another writer.
func (l *Log[T]) Append(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := l.read(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)

	if err := ctx.Err(); err != nil {
		return err
	}
	return l.write(records)
}

// All returns every record in append order.
func (l *Log[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx)
}

// Last returns the most recently appended record that satisfies match.
func (l *Log[T]) Last(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	records, err := l.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if match == nil || match(records[i]) {
			return records[i], true, nil
		}
	}
	return zero, false, nil
}

func (l *Log[T]) read(ctx context.Context) ([]T, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.WarnContext(ctx, "record log is not a JSON array, starting over", "path", l.path, "error", err)
		return []T{}, nil
	}
	return records, nil
}

func (l *Log[T]) write(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return store.WriteFileAtomic(l.path, data)
}
