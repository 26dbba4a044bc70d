// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph converts requirement trees to the node/edge form kept in
// the prereq_nodes, prereq_edges and prereq_roots tables, and stores that
// form in SQLite or PostgreSQL.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// Export flattens t into nodes and edges. The course root comes first and
// the remaining nodes follow in depth-first order, so a node's children
// always carry increasing ids.
func Export(t *tree.Tree, c *Counter) types.Graph {
	size := 1
	for _, n := range t.Requirements {
		n.Walk(func(tree.Node, int) { size++ })
	}
	next := c.Reserve(size)

	g := types.Graph{Course: t.Course, RootID: next}
	g.Nodes = append(g.Nodes, types.GraphNode{
		ID:         next,
		Type:       types.NodeCourse,
		CourseCode: t.Course,
		Value:      t.Course,
	})
	next++

	var add func(parent int64, n tree.Node)
	add = func(parent int64, n tree.Node) {
		id := next
		next++
		gn := types.GraphNode{ID: id, Type: nodeType(n), Value: nodeValue(n)}
		if n.Kind == tree.KindCourse && !n.Lexeme.IsZero() {
			gn.CourseCode = n.Lexeme.Code()
		}
		g.Nodes = append(g.Nodes, gn)
		edge := types.GraphEdge{ParentID: parent, ChildID: id, EdgeType: types.DefaultEdgeType}
		if n.Concurrent {
			edge.EdgeType = types.ConcurrentEdgeType
		}
		g.Edges = append(g.Edges, edge)
		for _, ch := range n.Children {
			add(id, ch)
		}
	}
	for _, n := range t.Requirements {
		add(g.RootID, n)
	}
	return g
}

func nodeType(n tree.Node) types.GraphNodeType {
	switch n.Kind {
	case tree.KindClassification:
		return types.NodeClassification
	case tree.KindExam:
		return types.NodeExam
	case tree.KindGroup:
		switch n.Op {
		case types.OpOr:
			return types.NodeOr
		case types.OpNot:
			return types.NodeNot
		}
		return types.NodeAnd
	}
	return types.NodeCourse
}

// nodeValue is the leaf label, or the bucket of a group. A grade-tagged
// group appends its tag, e.g. "Prerequisite GRADE C".
func nodeValue(n tree.Node) string {
	if n.Kind != tree.KindGroup {
		return n.Label()
	}
	v := string(n.Bucket)
	if n.GradeRequired {
		v = strings.TrimSpace(v + " GRADE " + string(n.MinGrade))
	}
	return v
}

// Tree rebuilds a requirement tree from its exported form.
func Tree(g types.Graph) (*tree.Tree, error) {
	if _, ok := g.Node(g.RootID); !ok {
		return nil, fmt.Errorf("root node %d not found", g.RootID)
	}
	concurrent := make(map[int64]bool)
	for _, e := range g.Edges {
		if e.EdgeType == types.ConcurrentEdgeType {
			concurrent[e.ChildID] = true
		}
	}

	var build func(id int64, depth int) (tree.Node, error)
	build = func(id int64, depth int) (tree.Node, error) {
		if depth > len(g.Nodes) {
			return tree.Node{}, fmt.Errorf("cycle at node %d", id)
		}
		gn, ok := g.Node(id)
		if !ok {
			return tree.Node{}, fmt.Errorf("node %d not found", id)
		}
		var n tree.Node
		switch gn.Type {
		case types.NodeAnd, types.NodeOr, types.NodeNot:
			var children []tree.Node
			for _, cid := range g.Children(id) {
				c, err := build(cid, depth+1)
				if err != nil {
					return tree.Node{}, err
				}
				children = append(children, c)
			}
			var err error
			if n, err = tree.NewGroup(types.Operator(gn.Type), children...); err != nil {
				return tree.Node{}, fmt.Errorf("node %d: %w", id, err)
			}
			n.Bucket, n.GradeRequired, n.MinGrade = parseGroupValue(gn.Value)
		case types.NodeClassification:
			if c, err := types.ParseClassification(gn.Value); err == nil {
				n = tree.Classification(c)
			} else {
				n = tree.Node{Kind: tree.KindClassification, Value: gn.Value}
			}
		case types.NodeExam:
			n = tree.Exam()
		default:
			if l, ok := lexeme.ParseCourse(gn.Value); ok {
				n = tree.Course(l)
			} else {
				n = tree.Node{Kind: tree.KindCourse, Value: gn.Value}
			}
		}
		n.Concurrent = concurrent[id]
		return n, nil
	}

	t := &tree.Tree{Course: g.Course}
	for _, cid := range g.Children(g.RootID) {
		n, err := build(cid, 1)
		if err != nil {
			return nil, err
		}
		t.Requirements = append(t.Requirements, n)
	}
	return t, nil
}

func parseGroupValue(v string) (types.BucketCategory, bool, types.Grade) {
	bucket, grade, found := strings.Cut(v, "GRADE")
	if !found {
		return types.BucketCategory(strings.TrimSpace(v)), false, types.GradeNone
	}
	return types.BucketCategory(strings.TrimSpace(bucket)), true, types.Grade(strings.TrimSpace(grade))
}

// WriteFile writes graphs as YAML, or as JSON when path ends in ".json".
func WriteFile(path string, graphs []types.Graph) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(graphs, "", "  ")
	} else {
		data, err = yaml.Marshal(graphs)
	}
	if err != nil {
		return fmt.Errorf("marshaling graphs: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteDOT renders g as a Graphviz digraph.
func WriteDOT(w io.Writer, g types.Graph) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.Course)
	b.WriteString("  node [shape=box, style=\"rounded\"];\n")
	for _, n := range g.Nodes {
		label := string(n.Type)
		if n.Value != "" && n.Type != types.NodeAnd && n.Type != types.NodeOr && n.Type != types.NodeNot {
			label = n.Value
		}
		fmt.Fprintf(&b, "  n%d [label=%q];\n", n.ID, label)
	}
	for _, e := range g.Edges {
		if e.EdgeType == types.ConcurrentEdgeType {
			fmt.Fprintf(&b, "  n%d -> n%d [style=dashed];\n", e.ParentID, e.ChildID)
			continue
		}
		fmt.Fprintf(&b, "  n%d -> n%d;\n", e.ParentID, e.ChildID)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
