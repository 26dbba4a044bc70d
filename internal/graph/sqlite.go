// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

// SQLiteStore keeps graphs in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prereq_nodes (
			node_id INTEGER PRIMARY KEY,
			course_code TEXT,
			node_type TEXT NOT NULL,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS prereq_edges (
			parent_id INTEGER NOT NULL REFERENCES prereq_nodes(node_id),
			child_id INTEGER NOT NULL REFERENCES prereq_nodes(node_id),
			edge_type TEXT NOT NULL DEFAULT 'CONTAINS',
			PRIMARY KEY (parent_id, child_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prereq_edges_child ON prereq_edges(child_id)`,
		`CREATE TABLE IF NOT EXISTS prereq_roots (
			course_code TEXT PRIMARY KEY,
			root_node_id INTEGER NOT NULL REFERENCES prereq_nodes(node_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// subtreeQuery selects every node id reachable from a course's root.
const subtreeQuery = `WITH RECURSIVE sub(id) AS (
		SELECT root_node_id FROM prereq_roots WHERE course_code = ?
		UNION
		SELECT e.child_id FROM prereq_edges e JOIN sub ON e.parent_id = sub.id
	)
	SELECT id FROM sub`

// SaveGraph replaces the stored graph of g.Course in one transaction.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g types.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := queryIDs(ctx, tx, subtreeQuery, g.Course)
	if err != nil {
		return fmt.Errorf("reading previous graph: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM prereq_roots WHERE course_code = ?`, g.Course); err != nil {
		return fmt.Errorf("deleting root: %w", err)
	}
	for _, id := range old {
		if _, err := tx.ExecContext(ctx, `DELETE FROM prereq_edges WHERE parent_id = ?`, id); err != nil {
			return fmt.Errorf("deleting edges of node %d: %w", id, err)
		}
	}
	for _, id := range old {
		if _, err := tx.ExecContext(ctx, `DELETE FROM prereq_nodes WHERE node_id = ?`, id); err != nil {
			return fmt.Errorf("deleting node %d: %w", id, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO prereq_nodes (node_id, course_code, node_type, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range g.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, n.ID, nullable(n.CourseCode), string(n.Type), nullable(n.Value)); err != nil {
			return fmt.Errorf("inserting node %d: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO prereq_edges (parent_id, child_id, edge_type) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, e.ParentID, e.ChildID, edgeType(e)); err != nil {
			return fmt.Errorf("inserting edge %d->%d: %w", e.ParentID, e.ChildID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO prereq_roots (course_code, root_node_id) VALUES (?, ?)
		 ON CONFLICT(course_code) DO UPDATE SET root_node_id=excluded.root_node_id`,
		g.Course, g.RootID,
	)
	if err != nil {
		return fmt.Errorf("upserting root: %w", err)
	}

	return tx.Commit()
}

// Graph loads the graph of course with nodes in id order.
func (s *SQLiteStore) Graph(ctx context.Context, course string) (types.Graph, error) {
	g := types.Graph{Course: course}
	err := s.db.QueryRowContext(ctx,
		`SELECT root_node_id FROM prereq_roots WHERE course_code = ?`, course,
	).Scan(&g.RootID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Graph{}, fmt.Errorf("%w: %s", ErrGraphNotFound, course)
	}
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading root: %w", err)
	}

	ids, err := queryIDs(ctx, s.db, subtreeQuery, course)
	if err != nil {
		return types.Graph{}, fmt.Errorf("reading subtree: %w", err)
	}

	for _, id := range sortedIDs(ids) {
		var n types.GraphNode
		var code, value sql.NullString
		var typ string
		err := s.db.QueryRowContext(ctx,
			`SELECT node_id, course_code, node_type, value FROM prereq_nodes WHERE node_id = ?`, id,
		).Scan(&n.ID, &code, &typ, &value)
		if err != nil {
			return types.Graph{}, fmt.Errorf("reading node %d: %w", id, err)
		}
		n.Type = types.GraphNodeType(typ)
		n.CourseCode = code.String
		n.Value = value.String
		g.Nodes = append(g.Nodes, n)

		edges, err := s.edgesFrom(ctx, id)
		if err != nil {
			return types.Graph{}, err
		}
		g.Edges = append(g.Edges, edges...)
	}
	return g, nil
}

func (s *SQLiteStore) edgesFrom(ctx context.Context, parent int64) ([]types.GraphEdge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parent_id, child_id, edge_type FROM prereq_edges WHERE parent_id = ? ORDER BY child_id`, parent)
	if err != nil {
		return nil, fmt.Errorf("reading edges of node %d: %w", parent, err)
	}
	defer rows.Close()

	var edges []types.GraphEdge
	for rows.Next() {
		var e types.GraphEdge
		if err := rows.Scan(&e.ParentID, &e.ChildID, &e.EdgeType); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Courses lists every course with a stored graph, alphabetically.
func (s *SQLiteStore) Courses(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_code FROM prereq_roots ORDER BY course_code`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// MaxNodeID returns the largest node id in the database.
func (s *SQLiteStore) MaxNodeID(ctx context.Context) (int64, error) {
	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(node_id) FROM prereq_nodes`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("reading max node id: %w", err)
	}
	return maxID.Int64, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func sortedIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func edgeType(e types.GraphEdge) string {
	if e.EdgeType == "" {
		return types.DefaultEdgeType
	}
	return e.EdgeType
}
