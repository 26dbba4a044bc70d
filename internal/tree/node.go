// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree builds requirement logic trees from catalog prerequisite
// text. Two builders produce the same node shape: FromBuckets lifts the
// groups found by the bucket classifier, and Parse reads each clause with
// AND binding tighter than OR.
package tree

import (
	"errors"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

// ErrEmptyGroup is returned when a group is built with no children.
var ErrEmptyGroup = errors.New("requirement group has no children")

// Kind tags the variant a Node holds.
type Kind int

const (
	KindCourse Kind = iota
	KindClassification
	KindExam
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindCourse:
		return "course"
	case KindClassification:
		return "classification"
	case KindExam:
		return "exam"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Node is one requirement: a Course, Classification or Exam leaf, or a
// Group joining its children with AND, OR or NOT. Nodes are values; the
// builders and the checker return new nodes instead of changing old ones.
type Node struct {
	Kind Kind

	// Lexeme is the course a Course leaf names. It is zero for a leaf
	// built from a bucket item that is not a course code.
	Lexeme types.Lexeme

	// Level is the standing a Classification leaf requires.
	Level types.Classification

	// Value keeps the literal bucket item for leaves that could not be
	// typed by their text.
	Value string

	Op       types.Operator
	Children []Node

	// Concurrent allows every course below this node to be met by
	// current enrollment.
	Concurrent bool

	// GradeRequired marks a clause that named a grade; MinGrade is the
	// letter it named, if any.
	GradeRequired bool
	MinGrade      types.Grade

	// Bucket is the category a bucket-mode group came from.
	Bucket types.BucketCategory
}

// Course returns a Course leaf.
func Course(l types.Lexeme) Node {
	return Node{Kind: KindCourse, Lexeme: l}
}

// Classification returns a Classification leaf.
func Classification(level types.Classification) Node {
	return Node{Kind: KindClassification, Level: level}
}

// Exam returns an Exam leaf.
func Exam() Node {
	return Node{Kind: KindExam}
}

// NewGroup returns a group of children joined by op.
func NewGroup(op types.Operator, children ...Node) (Node, error) {
	if len(children) == 0 {
		return Node{}, ErrEmptyGroup
	}
	return Node{Kind: KindGroup, Op: op, Children: children}, nil
}

// IsLeaf reports whether n is not a group.
func (n Node) IsLeaf() bool {
	return n.Kind != KindGroup
}

// decorated reports whether n carries anything beyond its operator, so
// flattening it into a parent would lose information.
func (n Node) decorated() bool {
	return n.Concurrent || n.GradeRequired || n.Bucket != ""
}

// Label is the display text of a node: the course code, the standing, the
// literal value, "Exam", or the operator.
func (n Node) Label() string {
	switch n.Kind {
	case KindCourse:
		if n.Lexeme.IsZero() {
			return n.Value
		}
		return n.Lexeme.Code()
	case KindClassification:
		if n.Level == "" {
			return n.Value
		}
		return string(n.Level)
	case KindExam:
		return "Exam"
	}
	return string(n.Op)
}

// Tree is one course's requirement: the AND of its requirements. A tree
// with no requirements is vacuously satisfied.
type Tree struct {
	Course       string
	Requirements []Node
}

// Labels re-derives the operator of every bucket-mode group, keyed by the
// bucket it came from. Trees built by Parse carry no buckets and yield an
// empty map.
func (t *Tree) Labels() map[types.BucketCategory][]types.Operator {
	out := make(map[types.BucketCategory][]types.Operator)
	for _, n := range t.Requirements {
		if n.Kind == KindGroup && n.Bucket != "" {
			out[n.Bucket] = append(out[n.Bucket], n.Op)
		}
	}
	return out
}

// Walk calls fn for every node in depth-first order, parents first.
func (n Node) Walk(fn func(Node, int)) {
	n.walk(fn, 0)
}

func (n Node) walk(fn func(Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
