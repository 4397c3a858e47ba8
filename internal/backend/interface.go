// Package backend selects and constructs the document store implementation
// shared by the server and the report worker.
package backend

import (
	"context"

	"caixa/internal/store"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the opened store and its cleanup function.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}

// Type names a store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t names a known store implementation.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
