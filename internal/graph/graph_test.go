// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

const scenarioText = "Prerequisite: Grade of C or better in MATH 142 and MATH 151; concurrent enrollment in CHEM 117/CSCE 677."

func bucketTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.FromText("ECEN 403", scenarioText)
	require.NoError(t, err)
	return tr
}

func TestCounter(t *testing.T) {
	c := NewCounter(0)
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Reserve(3))
	assert.Equal(t, int64(5), c.Next())
	assert.Equal(t, int64(5), c.Last())

	seeded := NewCounter(41)
	assert.Equal(t, int64(42), seeded.Next())
	assert.Equal(t, int64(1), NewCounter(-7).Next())
}

func TestCounterConcurrentReservations(t *testing.T) {
	c := NewCounter(0)
	const workers, size = 8, 25

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first := c.Reserve(size)
			mu.Lock()
			defer mu.Unlock()
			for id := first; id < first+size; id++ {
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*size)
	assert.Equal(t, int64(workers*size), c.Last())
}

func TestExport(t *testing.T) {
	g := Export(bucketTree(t), NewCounter(100))

	assert.Equal(t, "ECEN 403", g.Course)
	assert.Equal(t, int64(101), g.RootID)
	assert.Equal(t, []types.GraphNode{
		{ID: 101, Type: types.NodeCourse, CourseCode: "ECEN 403", Value: "ECEN 403"},
		{ID: 102, Type: types.NodeAnd, Value: "Prerequisite GRADE C"},
		{ID: 103, Type: types.NodeCourse, CourseCode: "MATH 142", Value: "MATH 142"},
		{ID: 104, Type: types.NodeCourse, CourseCode: "MATH 151", Value: "MATH 151"},
		{ID: 105, Type: types.NodeOr, Value: "Concurrent"},
		{ID: 106, Type: types.NodeCourse, CourseCode: "CHEM 117", Value: "CHEM 117"},
		{ID: 107, Type: types.NodeCourse, CourseCode: "CSCE 677", Value: "CSCE 677"},
	}, g.Nodes)
	assert.Equal(t, []types.GraphEdge{
		{ParentID: 101, ChildID: 102, EdgeType: types.DefaultEdgeType},
		{ParentID: 102, ChildID: 103, EdgeType: types.DefaultEdgeType},
		{ParentID: 102, ChildID: 104, EdgeType: types.DefaultEdgeType},
		{ParentID: 101, ChildID: 105, EdgeType: types.ConcurrentEdgeType},
		{ParentID: 105, ChildID: 106, EdgeType: types.DefaultEdgeType},
		{ParentID: 105, ChildID: 107, EdgeType: types.DefaultEdgeType},
	}, g.Edges)
}

func TestExportCourseCodes(t *testing.T) {
	tr, err := tree.FromBuckets("MATH 308", types.Buckets{
		types.BucketPrerequisite: {{Op: types.OpOr, Items: []string{"math 251", "Approval", "Exam", "Junior"}}},
	})
	require.NoError(t, err)
	g := Export(tr, NewCounter(0))

	codes := make(map[string]string)
	for _, n := range g.Nodes[1:] {
		codes[n.Value] = n.CourseCode
	}
	assert.Equal(t, "MATH 251", codes["MATH 251"])
	assert.Empty(t, codes["Approval"])
	assert.Empty(t, codes["Exam"])
	assert.Empty(t, codes["Junior"])
	assert.Empty(t, codes["Prerequisite"], "groups carry no course code")
}

func TestExportIsATree(t *testing.T) {
	tr, err := tree.Parse("ECEN 403", "ECEN 314, ECEN 325, and ECEN 350/CSCE 350 or CSCE 315; not STAT 211; senior classification.")
	require.NoError(t, err)
	g := Export(tr, NewCounter(0))

	ids := make(map[int64]bool)
	for _, n := range g.Nodes {
		assert.Positive(t, n.ID)
		assert.False(t, ids[n.ID], "duplicate id %d", n.ID)
		ids[n.ID] = true
	}
	parents := make(map[int64]int)
	for _, e := range g.Edges {
		assert.True(t, ids[e.ParentID])
		assert.True(t, ids[e.ChildID])
		parents[e.ChildID]++
	}
	for id := range ids {
		if id == g.RootID {
			assert.Zero(t, parents[id])
			continue
		}
		assert.Equal(t, 1, parents[id], "node %d", id)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	texts := []string{
		scenarioText,
		"Grade of B or better in ECEN 314 and ECEN 325 or CSCE 315; not STAT 211; senior classification; placement exam.",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			for _, build := range []func(string, string) (*tree.Tree, error){tree.FromText, tree.Parse} {
				want, err := build("ECEN 403", text)
				require.NoError(t, err)
				got, err := Tree(Export(want, NewCounter(0)))
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestTreeErrors(t *testing.T) {
	_, err := Tree(types.Graph{Course: "X 100", RootID: 9})
	assert.Error(t, err)

	_, err = Tree(types.Graph{
		Course: "X 100",
		RootID: 1,
		Nodes:  []types.GraphNode{{ID: 1, Type: types.NodeCourse}, {ID: 2, Type: types.NodeAnd}},
		Edges:  []types.GraphEdge{{ParentID: 1, ChildID: 2}},
	})
	assert.ErrorIs(t, err, tree.ErrEmptyGroup)

	_, err = Tree(types.Graph{
		Course: "X 100",
		RootID: 1,
		Nodes:  []types.GraphNode{{ID: 1, Type: types.NodeCourse}, {ID: 2, Type: types.NodeAnd}},
		Edges:  []types.GraphEdge{{ParentID: 1, ChildID: 2}, {ParentID: 2, ChildID: 2}},
	})
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "prereq.db"))
	require.NoError(t, err)
	defer s.Close()

	maxID, err := s.MaxNodeID(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	_, err = s.Graph(ctx, "ECEN 403")
	assert.ErrorIs(t, err, ErrGraphNotFound)

	c := NewCounter(0)
	first := Export(bucketTree(t), c)
	require.NoError(t, s.SaveGraph(ctx, first))

	got, err := s.Graph(ctx, "ECEN 403")
	require.NoError(t, err)
	assert.Equal(t, first.RootID, got.RootID)
	assert.Equal(t, first.Nodes, got.Nodes)
	assert.ElementsMatch(t, first.Edges, got.Edges)

	other, err := tree.Parse("MATH 308", "MATH 251 or MATH 253")
	require.NoError(t, err)
	require.NoError(t, s.SaveGraph(ctx, Export(other, c)))

	// Saving again replaces the course's previous rows.
	second := Export(bucketTree(t), c)
	require.NoError(t, s.SaveGraph(ctx, second))
	got, err = s.Graph(ctx, "ECEN 403")
	require.NoError(t, err)
	assert.Equal(t, second.Nodes, got.Nodes)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM prereq_nodes`).Scan(&count))
	assert.Equal(t, len(second.Nodes)+4, count)

	courses, err := s.Courses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ECEN 403", "MATH 308"}, courses)

	maxID, err = s.MaxNodeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.Last(), maxID)

	rebuilt, err := Tree(got)
	require.NoError(t, err)
	assert.Equal(t, bucketTree(t), rebuilt)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PREREQ_ENGINE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("PREREQ_ENGINE_TEST_POSTGRES not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	maxID, err := s.MaxNodeID(ctx)
	require.NoError(t, err)
	c := NewCounter(maxID)

	g := Export(bucketTree(t), c)
	require.NoError(t, s.SaveGraph(ctx, g))
	got, err := s.Graph(ctx, "ECEN 403")
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, got.Nodes)
	assert.ElementsMatch(t, g.Edges, got.Edges)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, types.StoreConfig{Driver: "bolt"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, types.StoreConfig{Driver: types.DriverPostgres})
	assert.Error(t, err)

	s, err := Open(ctx, types.StoreConfig{Path: filepath.Join(t.TempDir(), "prereq.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
}

func TestWriteFile(t *testing.T) {
	g := Export(bucketTree(t), NewCounter(0))
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "graph.json")
	require.NoError(t, WriteFile(jsonPath, []types.Graph{g}))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Graph
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, []types.Graph{g}, fromJSON)
	assert.Contains(t, string(data), `"node_id": 1`)

	yamlPath := filepath.Join(dir, "graph.yaml")
	require.NoError(t, WriteFile(yamlPath, []types.Graph{g}))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Graph
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, []types.Graph{g}, fromYAML)
}

func TestWriteDOT(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteDOT(&b, Export(bucketTree(t), NewCounter(0))))
	out := b.String()
	assert.True(t, strings.HasPrefix(out, `digraph "ECEN 403" {`))
	assert.Contains(t, out, `n2 [label="AND"];`)
	assert.Contains(t, out, `n3 [label="MATH 142"];`)
	assert.Contains(t, out, "n1 -> n5 [style=dashed];")
	assert.Contains(t, out, "n2 -> n3;")
}
