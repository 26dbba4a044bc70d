// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

const (
	pgSubtree = `WITH RECURSIVE sub(id) AS (
		SELECT root_node_id FROM prereq_roots WHERE course_code = $1
		UNION
		SELECT e.child_id FROM prereq_edges e JOIN sub ON e.parent_id = sub.id
	)
	SELECT id FROM sub ORDER BY id`

	pgInsertNode = `INSERT INTO prereq_nodes (node_id, course_code, node_type, value) VALUES ($1, $2, $3, $4) ON CONFLICT (node_id) DO NOTHING`
	pgInsertEdge = `INSERT INTO prereq_edges (parent_id, child_id, edge_type) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	pgUpsertRoot = `INSERT INTO prereq_roots (course_code, root_node_id) VALUES ($1, $2) ON CONFLICT (course_code) DO UPDATE SET root_node_id = EXCLUDED.root_node_id`
)

// PostgresStore keeps graphs in PostgreSQL through a pgx connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and creates the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres store needs a connection string")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	s := &PostgresStore{Pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prereq_nodes (
			node_id BIGINT PRIMARY KEY,
			course_code TEXT,
			node_type TEXT NOT NULL,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS prereq_edges (
			parent_id BIGINT NOT NULL REFERENCES prereq_nodes(node_id),
			child_id BIGINT NOT NULL REFERENCES prereq_nodes(node_id),
			edge_type TEXT NOT NULL DEFAULT 'CONTAINS',
			PRIMARY KEY (parent_id, child_id)
		)`,
		`CREATE TABLE IF NOT EXISTS prereq_roots (
			course_code TEXT PRIMARY KEY,
			root_node_id BIGINT NOT NULL REFERENCES prereq_nodes(node_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveGraph replaces the stored graph of g.Course. Old rows are removed
// and new rows are sent as one batch inside a transaction.
func (s *PostgresStore) SaveGraph(ctx context.Context, g types.Graph) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	old, err := pgIDs(ctx, tx, pgSubtree, g.Course)
	if err != nil {
		return fmt.Errorf("reading previous graph: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM prereq_roots WHERE course_code = $1`, g.Course)
	if len(old) > 0 {
		batch.Queue(`DELETE FROM prereq_edges WHERE parent_id = ANY($1)`, old)
		batch.Queue(`DELETE FROM prereq_nodes WHERE node_id = ANY($1)`, old)
	}
	for _, n := range g.Nodes {
		batch.Queue(pgInsertNode, n.ID, nullable(n.CourseCode), string(n.Type), nullable(n.Value))
	}
	for _, e := range g.Edges {
		batch.Queue(pgInsertEdge, e.ParentID, e.ChildID, edgeType(e))
	}
	batch.Queue(pgUpsertRoot, g.Course, g.RootID)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("writing graph %s: %w", g.Course, err)
	}
	return tx.Commit(ctx)
}

// Graph loads the graph of course with nodes in id order.
func (s *PostgresStore) Graph(ctx context.Context, course string) (types.Graph, error) {
	g := types.Graph{Course: course}
	err := s.Pool.QueryRow(ctx, `SELECT root_node_id FROM prereq_roots WHERE course_code = $1`, course).Scan(&g.RootID)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Graph{}, fmt.Errorf("%w: %s", ErrGraphNotFound, course)
	}
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading root: %w", err)
	}

	ids, err := pgIDs(ctx, s.Pool, pgSubtree, course)
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading subtree: %w", err)
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT node_id, COALESCE(course_code, ''), node_type, COALESCE(value, '') FROM prereq_nodes WHERE node_id = ANY($1) ORDER BY node_id`, ids)
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading nodes: %w", err)
	}
	g.Nodes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.GraphNode, error) {
		var n types.GraphNode
		var typ string
		err := row.Scan(&n.ID, &n.CourseCode, &typ, &n.Value)
		n.Type = types.GraphNodeType(typ)
		return n, err
	})
	if err != nil {
		return types.Graph{}, fmt.Errorf("scanning nodes: %w", err)
	}

	rows, err = s.Pool.Query(ctx,
		`SELECT parent_id, child_id, edge_type FROM prereq_edges WHERE parent_id = ANY($1) ORDER BY parent_id, child_id`, ids)
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading edges: %w", err)
	}
	g.Edges, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.GraphEdge, error) {
		var e types.GraphEdge
		err := row.Scan(&e.ParentID, &e.ChildID, &e.EdgeType)
		return e, err
	})
	if err != nil {
		return types.Graph{}, fmt.Errorf("scanning edges: %w", err)
	}
	return g, nil
}

// Courses lists every course with a stored graph, alphabetically.
func (s *PostgresStore) Courses(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT course_code FROM prereq_roots ORDER BY course_code`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// MaxNodeID returns the largest node id in the database.
func (s *PostgresStore) MaxNodeID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := s.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(node_id), 0) FROM prereq_nodes`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("reading max node id: %w", err)
	}
	return maxID, nil
}

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func pgIDs(ctx context.Context, q pgQuerier, query string, args ...any) ([]int64, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
