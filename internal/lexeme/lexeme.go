// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexeme normalizes course references. It understands the three
// textual forms a course appears in: catalog prose ("MATH 142"), compact
// requirement lexemes ("CHEM107C^"), and student transcript or enrollment
// entries ("ECEN314 C", "ECEN449 C ^").
package lexeme

import (
	"regexp"
	"strings"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

var (
	// coursePattern matches a bare course code with an optional space or
	// underscore between department and number.
	coursePattern = regexp.MustCompile(`^([A-Z]{2,4})[ _]?(\d{3})$`)

	// compactPattern matches DEPTNUM[GRADE][^], tolerating spaces.
	compactPattern = regexp.MustCompile(`^([A-Z]{2,4})[ _]?(\d{3})\s*([A-F])?\s*(\^)?$`)

	// recordPattern matches transcript and enrollment entries.
	recordPattern = regexp.MustCompile(`^([A-Z]{2,4})[ _]?(\d{3})(?:\s*([A-F]))?(?:\s*(\^))?$`)
)

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsCourse reports whether s is a course code in any accepted spelling.
func IsCourse(s string) bool {
	return coursePattern.MatchString(normalize(s))
}

// ParseCourse canonicalizes a course code such as "math 142" or "MATH142".
// MinGrade and Concurrent are left unset.
func ParseCourse(s string) (types.Lexeme, bool) {
	m := coursePattern.FindStringSubmatch(normalize(s))
	if m == nil {
		return types.Lexeme{}, false
	}
	return types.Lexeme{Department: m[1], Number: m[2]}, true
}

// Canonical returns the "DEPT NUM" spelling of s, or s unchanged when it is
// not a course code.
func Canonical(s string) string {
	l, ok := ParseCourse(s)
	if !ok {
		return s
	}
	return l.Code()
}

// ParseCompact parses a compact requirement lexeme: "CHEM107C^" is CHEM 107,
// minimum grade C, concurrency allowed. A missing grade leaves MinGrade at
// GradeNone.
func ParseCompact(s string) (types.Lexeme, bool) {
	m := compactPattern.FindStringSubmatch(normalize(s))
	if m == nil {
		return types.Lexeme{}, false
	}
	return types.Lexeme{
		Department: m[1],
		Number:     m[2],
		MinGrade:   types.Grade(m[3]),
		Concurrent: m[4] != "",
	}, true
}

// ParseTranscript parses a completed-course entry such as "ECEN314 C".
func ParseTranscript(s string) (types.TranscriptRecord, bool) {
	m := recordPattern.FindStringSubmatch(normalize(s))
	if m == nil {
		return types.TranscriptRecord{}, false
	}
	return types.TranscriptRecord{Department: m[1], Number: m[2], Grade: types.Grade(m[3])}, true
}

// ParseEnrollment parses an in-progress entry such as "ECEN449 C ^" or
// "ACCT328 ^".
func ParseEnrollment(s string) (types.EnrollmentRecord, bool) {
	m := recordPattern.FindStringSubmatch(normalize(s))
	if m == nil {
		return types.EnrollmentRecord{}, false
	}
	return types.EnrollmentRecord{
		Department: m[1],
		Number:     m[2],
		Grade:      types.Grade(m[3]),
		Concurrent: m[4] != "",
	}, true
}

// Transcript parses every entry, dropping those that are not course entries.
func Transcript(entries []string) []types.TranscriptRecord {
	out := make([]types.TranscriptRecord, 0, len(entries))
	for _, e := range entries {
		if r, ok := ParseTranscript(e); ok {
			out = append(out, r)
		}
	}
	return out
}

// Enrollment parses every entry, dropping those that are not course entries.
func Enrollment(entries []string) []types.EnrollmentRecord {
	out := make([]types.EnrollmentRecord, 0, len(entries))
	for _, e := range entries {
		if r, ok := ParseEnrollment(e); ok {
			out = append(out, r)
		}
	}
	return out
}
