// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve decides whether a student meets a single course
// requirement. Both the tree checker and the compact evaluator resolve
// their course leaves here.
package resolve

import (
	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// Policy holds the choices the catalog data does not settle.
type Policy struct {
	// Concurrency selects how a concurrent-allowed requirement matches
	// the enrollment list.
	Concurrency types.ConcurrencyMode

	// TextDefaultGrade applies to requirements read from catalog prose
	// that name no grade.
	TextDefaultGrade types.Grade

	// CompactDefaultGrade applies to compact lexemes that name no grade.
	CompactDefaultGrade types.Grade
}

// DefaultPolicy is membership matching, D for text requirements and no
// minimum for compact lexemes.
func DefaultPolicy() Policy {
	return PolicyFrom(types.DefaultPolicy())
}

// PolicyFrom converts configuration into a Policy. An empty or unknown
// concurrency mode selects membership matching.
func PolicyFrom(cfg types.PolicyConfig) Policy {
	p := Policy{
		Concurrency:         cfg.Concurrency,
		TextDefaultGrade:    cfg.TextDefaultGrade,
		CompactDefaultGrade: cfg.CompactDefaultGrade,
	}
	if p.Concurrency != types.ConcurrencyExact {
		p.Concurrency = types.ConcurrencyMembership
	}
	return p
}

// Resolver matches lexemes against one student's coursework.
type Resolver struct {
	Policy     Policy
	Transcript []types.TranscriptRecord
	Enrollment []types.EnrollmentRecord
}

// New parses raw transcript and enrollment entries into a Resolver.
// Malformed entries are dropped.
func New(policy Policy, taken, enrolled []string) Resolver {
	return Resolver{
		Policy:     policy,
		Transcript: lexeme.Transcript(taken),
		Enrollment: lexeme.Enrollment(enrolled),
	}
}

// Resolve reports whether l is met by a completed course with a strong
// enough grade or, when l allows it, by current enrollment. The lexeme's
// MinGrade is used as given; callers apply their form's default first.
func (r Resolver) Resolve(l types.Lexeme) bool {
	if l.IsZero() {
		return false
	}
	for _, t := range r.Transcript {
		if l.Same(t.Department, t.Number) && t.Grade.AtLeast(l.MinGrade) {
			return true
		}
	}
	if !l.Concurrent {
		return false
	}
	if r.Policy.Concurrency == types.ConcurrencyExact {
		return r.enrolledExact(l)
	}
	return r.Enrolled(l)
}

// ResolveString parses a compact lexeme such as "CHEM107C^", applies the
// compact default grade and resolves it. Unparseable input is unmet.
func (r Resolver) ResolveString(s string) bool {
	l, ok := lexeme.ParseCompact(s)
	if !ok {
		return false
	}
	if l.MinGrade == types.GradeNone {
		l.MinGrade = r.Policy.CompactDefaultGrade
	}
	return r.Resolve(l)
}

// Enrolled reports whether any enrollment entry names l's course.
func (r Resolver) Enrolled(l types.Lexeme) bool {
	for _, e := range r.Enrollment {
		if l.Same(e.Department, e.Number) {
			return true
		}
	}
	return false
}

// enrolledExact requires the entry "DEPTNUM G ^" where G is l's grade, or
// D when l names none.
func (r Resolver) enrolledExact(l types.Lexeme) bool {
	want := l.MinGrade
	if want == types.GradeNone {
		want = types.GradeD
	}
	for _, e := range r.Enrollment {
		if l.Same(e.Department, e.Number) && e.Concurrent && e.Grade == want {
			return true
		}
	}
	return false
}
