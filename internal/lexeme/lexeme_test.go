// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexeme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

func TestParseCourse(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"MATH 142", "MATH 142", true},
		{"math142", "MATH 142", true},
		{"ECEN_403", "ECEN 403", true},
		{" CS 101 ", "CS 101", true},
		{"MATHEMATICS 142", "", false},
		{"MATH 1420", "", false},
		{"M 142", "", false},
		{"exam", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCourse(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got.Code())
			}
		})
	}
}

func TestParseCompact(t *testing.T) {
	tests := []struct {
		in     string
		want   types.Lexeme
		wantOK bool
	}{
		{"CHEM107C^", types.Lexeme{Department: "CHEM", Number: "107", MinGrade: types.GradeC, Concurrent: true}, true},
		{"CHEM107 C ^", types.Lexeme{Department: "CHEM", Number: "107", MinGrade: types.GradeC, Concurrent: true}, true},
		{"COMM205C", types.Lexeme{Department: "COMM", Number: "205", MinGrade: types.GradeC}, true},
		{"ACCT328^", types.Lexeme{Department: "ACCT", Number: "328", Concurrent: true}, true},
		{"ECEN314", types.Lexeme{Department: "ECEN", Number: "314"}, true},
		{".", types.Lexeme{}, false},
		{"ECEN31", types.Lexeme{}, false},
		{"ECEN314G", types.Lexeme{}, false},
		{"", types.Lexeme{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCompact(tt.in)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecords(t *testing.T) {
	tr, ok := ParseTranscript("ECEN314 C")
	require.True(t, ok)
	assert.Equal(t, types.TranscriptRecord{Department: "ECEN", Number: "314", Grade: types.GradeC}, tr)

	tr, ok = ParseTranscript("CSCE 120")
	require.True(t, ok)
	assert.Equal(t, types.GradeNone, tr.Grade)

	en, ok := ParseEnrollment("ECEN449 C ^")
	require.True(t, ok)
	assert.Equal(t, types.EnrollmentRecord{Department: "ECEN", Number: "449", Grade: types.GradeC, Concurrent: true}, en)

	en, ok = ParseEnrollment("ACCT328 ^")
	require.True(t, ok)
	assert.True(t, en.Concurrent)
	assert.Equal(t, types.GradeNone, en.Grade)

	_, ok = ParseEnrollment("not a course")
	assert.False(t, ok)
}

func TestParseRecordsCompactSpelling(t *testing.T) {
	tests := []struct {
		in       string
		taken    types.TranscriptRecord
		enrolled types.EnrollmentRecord
	}{
		{
			in:       "ECEN314C",
			taken:    types.TranscriptRecord{Department: "ECEN", Number: "314", Grade: types.GradeC},
			enrolled: types.EnrollmentRecord{Department: "ECEN", Number: "314", Grade: types.GradeC},
		},
		{
			in:       "CHEM107C^",
			taken:    types.TranscriptRecord{Department: "CHEM", Number: "107", Grade: types.GradeC},
			enrolled: types.EnrollmentRecord{Department: "CHEM", Number: "107", Grade: types.GradeC, Concurrent: true},
		},
		{
			in:       "acct328^",
			taken:    types.TranscriptRecord{Department: "ACCT", Number: "328"},
			enrolled: types.EnrollmentRecord{Department: "ACCT", Number: "328", Concurrent: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tr, ok := ParseTranscript(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.taken, tr)

			en, ok := ParseEnrollment(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.enrolled, en)
		})
	}

	_, ok := ParseTranscript("ECEN314G")
	assert.False(t, ok)
}

func TestTranscriptDropsMalformed(t *testing.T) {
	got := Transcript([]string{"ECEN303 C", "bogus", "CSCE120 C"})
	require.Len(t, got, 2)
	assert.Equal(t, "303", got[0].Number)
	assert.Equal(t, "120", got[1].Number)
}

func TestGradeAtLeast(t *testing.T) {
	tests := []struct {
		earned, min types.Grade
		want        bool
	}{
		{types.GradeA, types.GradeC, true},
		{types.GradeC, types.GradeC, true},
		{types.GradeD, types.GradeC, false},
		{types.GradeF, types.GradeD, false},
		{types.GradeF, types.GradeNone, true},
		{types.GradeNone, types.GradeNone, true},
		{types.GradeNone, types.GradeD, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.earned)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.earned.AtLeast(tt.min))
		})
	}
}
