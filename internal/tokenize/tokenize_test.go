// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "catalog sentence",
			in:   "Prerequisite: Grade of C or better in MATH 142 and MATH 151; concurrent enrollment in CHEM 117/CSCE 677.",
			want: []string{"Pre", "Grade(C)", "Or", "MATH 142", "And", "MATH 151", ";", "Concurrent", "CHEM 117", "/", "CSCE 677", "."},
		},
		{
			name: "course codes without a space are one token",
			in:   "csce121, ecen248",
			want: []string{"CSCE 121", ",", "ECEN 248"},
		},
		{
			name: "classification and exam words",
			in:   "Junior or senior classification; or passing the placement exam.",
			want: []string{"Junior", "Or", "Senior", ";", "Or", "Exam", "."},
		},
		{
			name: "negation",
			in:   "May not be taken after STAT 211.",
			want: []string{"Not", "STAT 211", "."},
		},
		{
			name: "cross listing and corequisite headers",
			in:   "Corequisite: PHYS 216. Cross-listed with ECEN 350.",
			want: []string{"Concurrent", "PHYS 216", ".", "Cross", "ECEN 350", "."},
		},
		{
			name: "vocabulary word before digits stays a word",
			in:   "CSCE 121 and 120 credit hours",
			want: []string{"CSCE 121", "And"},
		},
		{
			name: "filler word before digits is not a course",
			in:   "9 hours in 300-level courses or CSCE 312.",
			want: []string{"Or", "CSCE 312", "."},
		},
		{
			name: "filler words before numbers",
			in:   "A total of 120 hours, any 400 level course, at 200 or above.",
			want: []string{",", ",", "Or", "."},
		},
		{
			name: "grade without letter",
			in:   "grade or better",
			want: []string{"Grade", "Or"},
		},
		{
			name: "filler only",
			in:   "Approval of instructor.",
			want: []string{"."},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(Text(tt.in)))
		})
	}
}

func TestTextGradeLetter(t *testing.T) {
	tokens := Text("grade of B or better in MATH 251")
	require.NotEmpty(t, tokens)
	assert.Equal(t, Grade, tokens[0].Kind)
	assert.Equal(t, types.GradeB, tokens[0].Letter)

	tokens = Text("minimum grade C in MATH 251")
	require.NotEmpty(t, tokens)
	assert.Equal(t, types.GradeC, tokens[0].Letter)
	assert.Equal(t, "MATH 251", tokens[1].Text)
}

func TestElideGrade(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "drops grade and one connector",
			in:   "Grade of C or better in MATH 142 and MATH 151",
			want: []string{"MATH 142", "And", "MATH 151"},
		},
		{
			name: "never consumes more than one token",
			in:   "grade or and MATH 142",
			want: []string{"And", "MATH 142"},
		},
		{
			name: "grade followed by a course keeps the course",
			in:   "grade MATH 142 or MATH 147",
			want: []string{"MATH 142", "Or", "MATH 147"},
		},
		{
			name: "trailing grade",
			in:   "MATH 142 grade",
			want: []string{"MATH 142"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(ElideGrade(Text(tt.in))))
		})
	}
}

func TestSplit(t *testing.T) {
	clauses := Split(Text("MATH 142; ; CHEM 117 or CHEM 107."))
	require.Len(t, clauses, 2)
	assert.Equal(t, []string{"MATH 142"}, texts(clauses[0]))
	assert.Equal(t, []string{"CHEM 117", "Or", "CHEM 107"}, texts(clauses[1]))

	assert.Empty(t, Split(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "course", Course.String())
	assert.Equal(t, "delimiter", Delimiter.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
