// pkg/jsonstore/jsonstore.go
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store persists named collections as JSON files in a single directory.
// Writes go through a temp file and rename, so a crash mid-save leaves the
// previous file intact. Callers serialize access; the store itself holds
// no locks.
type Store struct {
	dir    string
	tracer trace.Tracer
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:    dir,
		tracer: otel.Tracer("librastock/jsonstore"),
	}, nil
}

// Load reads the named collection into v. A missing file is not an error;
// v is left untouched so callers start from their zero state.
func (s *Store) Load(ctx context.Context, name string, v any) error {
	_, span := s.tracer.Start(ctx, "jsonstore.load",
		trace.WithAttributes(attribute.String("collection", name)),
	)
	defer span.End()

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Save writes the named collection atomically.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	_, span := s.tracer.Start(ctx, "jsonstore.save",
		trace.WithAttributes(attribute.String("collection", name)),
	)
	defer span.End()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
