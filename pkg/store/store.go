// Package store persists benchmark runs.
//
// Only runs and their records are stored, never graphs: a graph is
// reproducible from its sweep and seed. [MemoryStore] keeps runs for the
// life of the process; [MongoStore] keeps them in MongoDB.
package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/matchbench/pkg/bench"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// DefaultListLimit caps ListRuns when the caller passes a limit <= 0.
const DefaultListLimit = 50

// Store saves and retrieves benchmark runs. Implementations are safe for
// concurrent use.
type Store interface {
	// SaveRun inserts run or replaces the run with the same ID.
	SaveRun(ctx context.Context, run *bench.Run) error

	// GetRun returns the run with id, or a NOT_FOUND error.
	GetRun(ctx context.Context, id string) (*bench.Run, error)

	// ListRuns returns up to limit runs, newest first, without records.
	ListRuns(ctx context.Context, limit int) ([]*bench.Run, error)

	Close(ctx context.Context) error
}

// Backends accepted by [Open].
const (
	BackendMemory = "memory"
	BackendNone   = "none"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	MongoURI string
	Database string
}

// Open builds the store described by opts. "none" and "memory" both yield
// a [MemoryStore].
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendNone, BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.Database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "run %s not found", id)
}

func validateRun(run *bench.Run) error {
	if run == nil || run.ID == "" {
		return errs.New(errs.ErrCodeInvalidInput, "run has no id")
	}
	return nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
