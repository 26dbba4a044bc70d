// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GraphNodeType is the node_type column of an exported requirement node.
type GraphNodeType string

const (
	NodeCourse         GraphNodeType = "COURSE"
	NodeClassification GraphNodeType = "CLASSIFICATION"
	NodeExam           GraphNodeType = "EXAM"
	NodeAnd            GraphNodeType = "AND"
	NodeOr             GraphNodeType = "OR"
	NodeNot            GraphNodeType = "NOT"
)

const (
	// DefaultEdgeType is stored when an edge carries no explicit type.
	DefaultEdgeType = "CONTAINS"

	// ConcurrentEdgeType marks a child that may be met by enrollment.
	ConcurrentEdgeType = "CONCURRENT"
)

// GraphNode is one row of the exported requirement graph.
type GraphNode struct {
	// ID is a unique positive identifier drawn from the export counter.
	ID int64 `json:"node_id" yaml:"node_id"`

	Type GraphNodeType `json:"node_type" yaml:"node_type"`

	// CourseCode is set on the root node of each course and on every leaf
	// that names a catalog course.
	CourseCode string `json:"course_code,omitempty" yaml:"course_code,omitempty"`

	// Value holds the course code of a leaf, the literal of a
	// classification leaf, or the bucket name of a group.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// GraphEdge links a parent node to a child node.
type GraphEdge struct {
	ParentID int64  `json:"parent_id" yaml:"parent_id"`
	ChildID  int64  `json:"child_id" yaml:"child_id"`
	EdgeType string `json:"edge_type,omitempty" yaml:"edge_type,omitempty"`
}

// Graph is the exported node/edge form of one course's requirement tree.
type Graph struct {
	Course string      `json:"course" yaml:"course"`
	RootID int64       `json:"root_node_id" yaml:"root_node_id"`
	Nodes  []GraphNode `json:"nodes" yaml:"nodes"`
	Edges  []GraphEdge `json:"edges" yaml:"edges"`
}

// Node returns the node with the given id.
func (g Graph) Node(id int64) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Children returns the child ids of id in edge order.
func (g Graph) Children(id int64) []int64 {
	var out []int64
	for _, e := range g.Edges {
		if e.ParentID == id {
			out = append(out, e.ChildID)
		}
	}
	return out
}
