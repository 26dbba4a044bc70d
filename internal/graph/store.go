// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

// ErrUnknownDriver is returned by Open for an unsupported store driver.
var ErrUnknownDriver = errors.New("unknown store driver")

// ErrGraphNotFound is returned when no graph is stored for a course.
var ErrGraphNotFound = errors.New("graph not found")

// Store persists exported requirement graphs.
type Store interface {
	// SaveGraph stores g as the graph of g.Course, replacing any graph
	// saved for that course before.
	SaveGraph(ctx context.Context, g types.Graph) error

	// Graph loads the graph saved for course.
	Graph(ctx context.Context, course string) (types.Graph, error)

	// Courses lists the courses with a saved graph.
	Courses(ctx context.Context) ([]string, error)

	// MaxNodeID returns the largest stored node id, or 0 when empty.
	MaxNodeID(ctx context.Context) (int64, error)

	Close() error
}

// Open connects to the store cfg selects. An empty driver means SQLite.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case types.DriverSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case types.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
