// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package check evaluates a course requirement for one student. A
// requirement arrives either as a logic tree built from catalog text or as
// a compact expression; both resolve their courses through the same
// resolver and report the same statuses.
package check

import (
	"github.com/pdiddy/prereq-engine/internal/compact"
	"github.com/pdiddy/prereq-engine/internal/resolve"
	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// Requirement is either a logic tree or a compact expression.
type Requirement struct {
	course  string
	tree    *tree.Tree
	compact compact.Expression
}

// FromTree wraps a parsed tree.
func FromTree(t *tree.Tree) Requirement {
	return Requirement{course: t.Course, tree: t}
}

// FromCompact wraps a compact expression for course.
func FromCompact(course string, e compact.Expression) Requirement {
	return Requirement{course: course, compact: e}
}

// Course returns the course the requirement belongs to.
func (r Requirement) Course() string { return r.course }

// IsTree reports whether r holds a logic tree.
func (r Requirement) IsTree() bool { return r.tree != nil }

// Evaluated is a requirement node annotated with its status.
type Evaluated struct {
	Label  string         `json:"label" yaml:"label"`
	Kind   string         `json:"kind" yaml:"kind"`
	Op     types.Operator `json:"op,omitempty" yaml:"op,omitempty"`
	Status types.Status   `json:"status" yaml:"status"`

	// MinGrade is the grade a course leaf was checked against.
	MinGrade   types.Grade          `json:"min_grade,omitempty" yaml:"min_grade,omitempty"`
	Concurrent bool                 `json:"concurrent,omitempty" yaml:"concurrent,omitempty"`
	Bucket     types.BucketCategory `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Children   []Evaluated          `json:"children,omitempty" yaml:"children,omitempty"`

	// Node is the source node without its children.
	Node tree.Node `json:"-" yaml:"-"`
}

// Result is the outcome of checking one requirement.
type Result struct {
	Course string `json:"course" yaml:"course"`

	// Status is Satisfied, Unsatisfied, or Pending when only in-progress
	// courses stand between the student and the requirement.
	Status types.Status `json:"status" yaml:"status"`

	// Requirements holds the annotated tree requirements.
	Requirements []Evaluated `json:"requirements,omitempty" yaml:"requirements,omitempty"`

	// Compact holds the annotated compact expression.
	Compact *compact.Analysis `json:"compact,omitempty" yaml:"compact,omitempty"`
}

// Eligible reports whether the requirement is fully met.
func (r Result) Eligible() bool {
	return r.Status == types.Satisfied
}

// Bucket returns the AND over the requirements that came from cat.
// Categories the parse did not produce are satisfied.
func (r Result) Bucket(cat types.BucketCategory) types.Status {
	var nodes []Evaluated
	for _, e := range r.Requirements {
		if e.Bucket == cat {
			nodes = append(nodes, e)
		}
	}
	return combine(types.OpAnd, nodes)
}

// Check evaluates req for student under policy.
func Check(req Requirement, student types.Student, policy resolve.Policy) Result {
	r := resolve.New(policy, student.Taken, student.Enrolled)
	if req.tree != nil {
		return Tree(req.tree, student, r)
	}
	// Evaluate gives the verdict; Analyze only adds the per-node view and
	// tells an unmet expression apart from one waiting on enrollment.
	a := compact.Analyze(req.compact, r)
	status := types.StatusOf(compact.Evaluate(req.compact, r))
	if status == types.Unsatisfied && a.Status == types.Pending {
		status = types.Pending
	}
	return Result{Course: req.course, Status: status, Compact: &a}
}

// Tree annotates every node of t. The tree itself is not changed.
func Tree(t *tree.Tree, student types.Student, r resolve.Resolver) Result {
	ev := evaluator{student: student, r: r}
	out := Result{Course: t.Course}
	for _, n := range t.Requirements {
		out.Requirements = append(out.Requirements, ev.node(n, scope{}))
	}
	out.Status = combine(types.OpAnd, out.Requirements)
	return out
}

// scope carries decorations inherited from enclosing groups.
type scope struct {
	grade      types.Grade
	concurrent bool
}

type evaluator struct {
	student types.Student
	r       resolve.Resolver
}

func (ev evaluator) node(n tree.Node, s scope) Evaluated {
	out := Evaluated{
		Label:      n.Label(),
		Kind:       n.Kind.String(),
		Bucket:     n.Bucket,
		Concurrent: n.Concurrent || s.concurrent,
		Node:       n,
	}
	out.Node.Children = nil

	switch n.Kind {
	case tree.KindCourse:
		ev.course(&out, n, s)
	case tree.KindClassification:
		out.Status = types.StatusOf(n.Level != "" && ev.level() == n.Level)
	case tree.KindExam:
		out.Status = types.StatusOf(ev.student.ExamPassed)
	case tree.KindGroup:
		inner := s
		inner.concurrent = out.Concurrent
		if n.GradeRequired && n.MinGrade != types.GradeNone {
			inner.grade = n.MinGrade
		}
		out.Op = n.Op
		for _, c := range n.Children {
			out.Children = append(out.Children, ev.node(c, inner))
		}
		out.Status = combine(n.Op, out.Children)
	}
	return out
}

func (ev evaluator) course(out *Evaluated, n tree.Node, s scope) {
	l := n.Lexeme
	if l.IsZero() {
		out.Status = types.Unsatisfied
		return
	}
	if l.MinGrade == types.GradeNone {
		l.MinGrade = s.grade
	}
	if l.MinGrade == types.GradeNone {
		l.MinGrade = ev.r.Policy.TextDefaultGrade
	}
	l.Concurrent = l.Concurrent || out.Concurrent
	out.MinGrade = l.MinGrade

	switch {
	case ev.r.Resolve(l):
		out.Status = types.Satisfied
	case ev.r.Enrolled(l):
		out.Status = types.Pending
	default:
		out.Status = types.Unsatisfied
	}
}

func (ev evaluator) level() types.Classification {
	c, err := types.ParseClassification(string(ev.student.Classification))
	if err != nil {
		return ""
	}
	return c
}

// combine joins child statuses with op. An AND or OR that fails only
// because of Pending children is Pending; NOT is never Pending.
func combine(op types.Operator, children []Evaluated) types.Status {
	var strict, hopeful bool
	switch op {
	case types.OpOr:
		for _, c := range children {
			strict = strict || c.Status == types.Satisfied
			hopeful = hopeful || c.Status != types.Unsatisfied
		}
	case types.OpNot:
		strict = true
		for _, c := range children {
			strict = strict && c.Status != types.Satisfied
		}
		hopeful = strict
	default:
		strict, hopeful = true, true
		for _, c := range children {
			strict = strict && c.Status == types.Satisfied
			hopeful = hopeful && c.Status != types.Unsatisfied
		}
	}
	switch {
	case strict:
		return types.Satisfied
	case hopeful:
		return types.Pending
	}
	return types.Unsatisfied
}
