// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compact

import (
	"strconv"

	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/resolve"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// value is an element after mapping: a resolved boolean or a separator.
type value struct {
	sep bool
	b   bool
}

// Evaluate resolves expr against r. Nested arrays are reduced to one
// boolean first; then each "left . right" window is folded into left OR
// right, first separator first; what remains is ANDed. An empty level is
// satisfied.
func Evaluate(expr Expression, r resolve.Resolver) bool {
	vals := make([]value, 0, len(expr))
	for _, el := range expr {
		switch el.Kind {
		case ElemNested:
			vals = append(vals, value{b: Evaluate(el.Nested, r)})
		case ElemCourse:
			vals = append(vals, value{b: r.ResolveString(el.Course)})
		case ElemSeparator:
			vals = append(vals, value{sep: true})
		case ElemBool:
			vals = append(vals, value{b: el.Bool})
		}
	}
	return reduce(fold(vals))
}

// fold replaces the first separator window until no separator is left. A
// missing side, or a side that is itself a separator, is false and only
// real values are consumed with the separator.
func fold(vals []value) []value {
	for {
		i := firstSep(vals)
		if i < 0 {
			return vals
		}
		start, end := i, i
		left, right := false, false
		if i > 0 {
			start = i - 1
			left = vals[i-1].b
		}
		if i+1 < len(vals) && !vals[i+1].sep {
			end = i + 1
			right = vals[i+1].b
		}
		folded := make([]value, 0, len(vals)-(end-start))
		folded = append(folded, vals[:start]...)
		folded = append(folded, value{b: left || right})
		folded = append(folded, vals[end+1:]...)
		vals = folded
	}
}

func firstSep(vals []value) int {
	for i, v := range vals {
		if v.sep {
			return i
		}
	}
	return -1
}

func reduce(vals []value) bool {
	for _, v := range vals {
		if !v.b {
			return false
		}
	}
	return true
}

// Analysis is the annotated view of one element, for display.
type Analysis struct {
	// Label is the course code, the boolean literal, or AND/OR for a
	// nested level.
	Label    string         `json:"label" yaml:"label"`
	Status   types.Status   `json:"status" yaml:"status"`
	Op       types.Operator `json:"op,omitempty" yaml:"op,omitempty"`
	Children []Analysis     `json:"children,omitempty" yaml:"children,omitempty"`
}

// Analyze annotates expr level by level. Courses that are unmet but in the
// enrollment list are Pending, and a level is Pending when it is unmet but
// would be met if its pending children were. A level is labeled OR when it
// holds a separator and AND otherwise; separators themselves are omitted.
// The strict pass is Evaluate: Status is Satisfied exactly when Evaluate
// reports true.
func Analyze(expr Expression, r resolve.Resolver) Analysis {
	a := Analysis{Op: types.OpAnd}
	if expr.IsOr() {
		a.Op = types.OpOr
	}
	a.Label = string(a.Op)

	strict := make([]value, 0, len(expr))
	hopeful := make([]value, 0, len(expr))
	for _, el := range expr {
		var c Analysis
		switch el.Kind {
		case ElemSeparator:
			strict = append(strict, value{sep: true})
			hopeful = append(hopeful, value{sep: true})
			continue
		case ElemNested:
			c = Analyze(el.Nested, r)
		case ElemCourse:
			c = analyzeCourse(el.Course, r)
		case ElemBool:
			c = Analysis{Label: strconv.FormatBool(el.Bool), Status: types.StatusOf(el.Bool)}
		}
		a.Children = append(a.Children, c)
		strict = append(strict, value{b: c.Status == types.Satisfied})
		hopeful = append(hopeful, value{b: c.Status != types.Unsatisfied})
	}

	switch {
	case reduce(fold(strict)):
		a.Status = types.Satisfied
	case reduce(fold(hopeful)):
		a.Status = types.Pending
	default:
		a.Status = types.Unsatisfied
	}
	return a
}

func analyzeCourse(s string, r resolve.Resolver) Analysis {
	l, ok := lexeme.ParseCompact(s)
	if !ok {
		return Analysis{Label: s, Status: types.Unsatisfied}
	}
	a := Analysis{Label: l.Key(), Status: types.StatusOf(r.ResolveString(s))}
	if a.Status == types.Unsatisfied && r.Enrolled(l) {
		a.Status = types.Pending
	}
	return a
}
