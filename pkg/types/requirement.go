// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Grade is a single letter grade, A through F. The zero value means no grade.
type Grade string

const (
	GradeNone Grade = ""
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeD    Grade = "D"
	GradeF    Grade = "F"
)

// Valid reports whether g is one of the letters A, B, C, D or F.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

// AtLeast reports whether g is at least as strong as minimum. Letters earlier
// in the alphabet are stronger. Any grade, including none, meets GradeNone;
// no grade never meets a real minimum.
func (g Grade) AtLeast(minimum Grade) bool {
	if minimum == GradeNone {
		return true
	}
	if g == GradeNone {
		return false
	}
	return g <= minimum
}

// Lexeme is a normalized reference to one catalog course.
type Lexeme struct {
	// Department is the 2-4 letter subject code (e.g. "CSCE").
	Department string `json:"department" yaml:"department"`

	// Number is the 3-digit catalog number (e.g. "221").
	Number string `json:"number" yaml:"number"`

	// MinGrade is the weakest earned grade that satisfies the requirement.
	// GradeNone defers to the resolver's policy default for the input form.
	MinGrade Grade `json:"min_grade,omitempty" yaml:"min_grade,omitempty"`

	// Concurrent allows the requirement to be met by current enrollment.
	Concurrent bool `json:"concurrent,omitempty" yaml:"concurrent,omitempty"`
}

// Code returns the canonical "DEPT NUM" form.
func (l Lexeme) Code() string {
	return l.Department + " " + l.Number
}

// Key returns the compact "DEPTNUM" form used by transcripts and catalogs.
func (l Lexeme) Key() string {
	return l.Department + l.Number
}

// IsZero reports whether the lexeme names no course.
func (l Lexeme) IsZero() bool {
	return l.Department == "" && l.Number == ""
}

// Same reports whether l names the course department+number.
func (l Lexeme) Same(department, number string) bool {
	return l.Department == department && l.Number == number
}

func (l Lexeme) String() string {
	s := l.Key() + string(l.MinGrade)
	if l.Concurrent {
		s += "^"
	}
	return s
}

// Classification is a student's class standing.
type Classification string

const (
	Freshman  Classification = "Freshman"
	Sophomore Classification = "Sophomore"
	Junior    Classification = "Junior"
	Senior    Classification = "Senior"
)

// Classifications lists the standings in ascending order.
var Classifications = []Classification{Freshman, Sophomore, Junior, Senior}

// ParseClassification maps a case-insensitive standing name, singular or
// plural, to its Classification.
func ParseClassification(s string) (Classification, error) {
	for _, c := range Classifications {
		name := string(c)
		if strings.EqualFold(s, name) || strings.EqualFold(s, name+"s") {
			return c, nil
		}
	}
	if strings.EqualFold(s, "Freshmen") {
		return Freshman, nil
	}
	return "", fmt.Errorf("unknown classification %q", s)
}

// BucketCategory names the kind of clause a requirement group came from.
type BucketCategory string

const (
	BucketPrerequisite   BucketCategory = "Prerequisite"
	BucketConcurrent     BucketCategory = "Concurrent"
	BucketCrossListing   BucketCategory = "CrossListing"
	BucketClassification BucketCategory = "Classification"
)

// BucketOrder is the fixed iteration order for buckets.
var BucketOrder = []BucketCategory{
	BucketPrerequisite,
	BucketConcurrent,
	BucketCrossListing,
	BucketClassification,
}

// Operator joins the children of a requirement group.
type Operator string

const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
	OpNot Operator = "NOT"
)

// Group is one committed run of items within a bucket.
type Group struct {
	Op    Operator `json:"op" yaml:"op"`
	Items []string `json:"items" yaml:"items"`

	// MinGrade is the letter of a "Grade of X or better" phrase in the
	// group's clause. GradeNone when the clause names no grade.
	MinGrade Grade `json:"min_grade,omitempty" yaml:"min_grade,omitempty"`
}

// Buckets maps each category to its groups in commit order. Absent and
// empty categories are equivalent.
type Buckets map[BucketCategory][]Group

// IsEmpty reports whether no bucket holds a group.
func (b Buckets) IsEmpty() bool {
	for _, groups := range b {
		if len(groups) > 0 {
			return false
		}
	}
	return true
}

// Labels returns the operator of every group, keyed by category.
func (b Buckets) Labels() map[BucketCategory][]Operator {
	out := make(map[BucketCategory][]Operator)
	for _, cat := range BucketOrder {
		for _, g := range b[cat] {
			out[cat] = append(out[cat], g.Op)
		}
	}
	return out
}

// Status is the outcome of evaluating one requirement node.
type Status string

const (
	Satisfied   Status = "satisfied"
	Unsatisfied Status = "unsatisfied"
	// Pending marks a node that is unsatisfied only because a course is
	// still in progress.
	Pending Status = "pending"
)

// StatusOf converts a boolean outcome into Satisfied or Unsatisfied.
func StatusOf(ok bool) Status {
	if ok {
		return Satisfied
	}
	return Unsatisfied
}
