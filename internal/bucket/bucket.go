// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bucket groups catalog tokens into requirement categories. A header
// word ("Prerequisite", "Concurrent", "Cross") opens a bucket; tokens seen
// before any header fall into a default bucket chosen by the token kind.
package bucket

import (
	"github.com/pdiddy/prereq-engine/internal/tokenize"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

type pendingOp int

const (
	opNone pendingOp = iota
	opAnd
	opOr
	opSlash
)

var headerBuckets = map[string]types.BucketCategory{
	tokenize.HeaderPre:        types.BucketPrerequisite,
	tokenize.HeaderConcurrent: types.BucketConcurrent,
	tokenize.HeaderCross:      types.BucketCrossListing,
}

// state is the cursor for one Classify call.
type state struct {
	out     types.Buckets
	current types.BucketCategory // "" when no bucket is active
	group   []string
	op      pendingOp
	negated bool
	grade   types.Grade
	// skip drops the connector right after a Grade token.
	skip bool
}

// commit stores the pending group in the active bucket and resets group,
// operator, negation and grade whether or not anything was stored.
func (s *state) commit() {
	defer func() {
		s.group = nil
		s.op = opNone
		s.negated = false
		s.grade = types.GradeNone
	}()
	if len(s.group) == 0 || s.current == "" {
		return
	}

	items := s.group
	if s.op == opSlash {
		items = dedup(items)
	}

	label := types.OpOr
	switch {
	case s.negated:
		label = types.OpNot
	case s.op == opAnd:
		label = types.OpAnd
	}
	s.out[s.current] = append(s.out[s.current], types.Group{Op: label, Items: items, MinGrade: s.grade})
}

func (s *state) open(def types.BucketCategory) {
	if s.current == "" {
		s.current = def
	}
}

func (s *state) step(t tokenize.Token) {
	skip := s.skip
	s.skip = false
	switch t.Kind {
	case tokenize.Grade:
		if t.Letter != types.GradeNone {
			s.grade = t.Letter
		}
		s.skip = true
	case tokenize.Header:
		s.commit()
		s.current = headerBuckets[t.Text]
	case tokenize.Connector:
		if skip {
			return
		}
		switch t.Text {
		case tokenize.And:
			s.op = opAnd
		case tokenize.Or:
			s.op = opOr
		case tokenize.Slash:
			s.op = opSlash
		}
	case tokenize.Negation:
		s.negated = true
	case tokenize.Delimiter:
		s.commit()
		s.current = ""
	case tokenize.Classification:
		s.open(types.BucketClassification)
		s.group = append(s.group, t.Text)
	case tokenize.Course, tokenize.Exam:
		s.open(types.BucketPrerequisite)
		s.group = append(s.group, t.Text)
	}
}

// Classify runs the bucket state machine over tokens. A Grade token sets
// the minimum grade of the group being built, and the single connector
// directly after it is dropped as tokenize.ElideGrade would.
func Classify(tokens []tokenize.Token) types.Buckets {
	s := &state{out: types.Buckets{}}
	for _, t := range tokens {
		s.step(t)
	}
	s.commit()
	return s.out
}

// Parse tokenizes text and classifies the result.
func Parse(text string) types.Buckets {
	return Classify(tokenize.Text(text))
}

// dedup keeps the first occurrence of each item.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
