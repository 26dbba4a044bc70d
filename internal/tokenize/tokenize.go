// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenize scans catalog prerequisite prose into classified tokens.
// Only a fixed vocabulary is recognized; every other word is filler and is
// dropped. Token order always follows the source text.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

// Kind identifies the category of a token.
type Kind int

const (
	Course         Kind = iota // "MATH 142"
	Header                     // Pre, Concurrent, Cross
	Connector                  // And, Or, /
	Comma                      // ,
	Negation                   // Not, No
	Classification             // Freshman .. Senior
	Exam                       // Exam
	Grade                      // Grade, with an optional letter
	Delimiter                  // ; or .
)

var kindNames = map[Kind]string{
	Course:         "course",
	Header:         "header",
	Connector:      "connector",
	Comma:          "comma",
	Negation:       "negation",
	Classification: "classification",
	Exam:           "exam",
	Grade:          "grade",
	Delimiter:      "delimiter",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Canonical token texts compared by the bucket classifier and tree builder.
const (
	HeaderPre        = "Pre"
	HeaderConcurrent = "Concurrent"
	HeaderCross      = "Cross"
	And              = "And"
	Or               = "Or"
	Slash            = "/"
	ExamText         = "Exam"
	GradeText        = "Grade"
)

// Token is one recognized unit of catalog text.
type Token struct {
	Kind Kind
	// Text is the canonical form: "DEPT NUM" for courses, a capitalized
	// word otherwise, or the punctuation itself.
	Text string
	// Letter is the grade captured by a Grade token ("grade of C").
	Letter types.Grade
}

func (t Token) String() string {
	if t.Kind == Grade && t.Letter != types.GradeNone {
		return t.Text + "(" + string(t.Letter) + ")"
	}
	return t.Text
}

// unitPattern splits text into course codes, words and the punctuation the
// grammar cares about, in that priority.
var unitPattern = regexp.MustCompile(`(?i)\b([a-z]{2,4})\s?(\d{3})\b|([a-z]+)|([;./,])`)

var words = map[string]Token{
	"pre":          {Kind: Header, Text: HeaderPre},
	"concurrent":   {Kind: Header, Text: HeaderConcurrent},
	"concurrently": {Kind: Header, Text: HeaderConcurrent},
	"corequisite":  {Kind: Header, Text: HeaderConcurrent},
	"corequisites": {Kind: Header, Text: HeaderConcurrent},
	"coreq":        {Kind: Header, Text: HeaderConcurrent},
	"cross":        {Kind: Header, Text: HeaderCross},
	"and":          {Kind: Connector, Text: And},
	"or":           {Kind: Connector, Text: Or},
	"not":          {Kind: Negation, Text: "Not"},
	"no":           {Kind: Negation, Text: "No"},
	"exam":         {Kind: Exam, Text: ExamText},
	"exams":        {Kind: Exam, Text: ExamText},
	"examination":  {Kind: Exam, Text: ExamText},
	"grade":        {Kind: Grade, Text: GradeText},
}

// fillers are short words that precede numbers in catalog prose ("in
// 300-level courses", "of 120 hours") and are never departments.
var fillers = map[string]bool{
	"a": true, "an": true, "any": true, "all": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "in": true, "is": true, "of": true,
	"on": true, "than": true, "the": true, "to": true, "with": true,
}

// lookup classifies a single word, reporting false for filler.
func lookup(word string) (Token, bool) {
	low := strings.ToLower(word)
	if tok, ok := words[low]; ok {
		return tok, true
	}
	if strings.HasPrefix(low, "prereq") {
		return Token{Kind: Header, Text: HeaderPre}, true
	}
	if c, err := types.ParseClassification(low); err == nil {
		return Token{Kind: Classification, Text: string(c)}, true
	}
	return Token{}, false
}

// Text tokenizes catalog prose. A course-shaped match whose letters are a
// vocabulary word ("and 120") is read as that word, and one whose letters
// are filler ("in 300") is dropped with its number.
func Text(s string) []Token {
	var units []string
	var courses []bool
	for _, m := range unitPattern.FindAllStringSubmatch(s, -1) {
		switch {
		case m[1] != "":
			if _, ok := lookup(m[1]); ok || fillers[strings.ToLower(m[1])] {
				units = append(units, m[1])
				courses = append(courses, false)
				continue
			}
			units = append(units, strings.ToUpper(m[1])+" "+m[2])
			courses = append(courses, true)
		case m[3] != "":
			units = append(units, m[3])
			courses = append(courses, false)
		default:
			units = append(units, m[4])
			courses = append(courses, false)
		}
	}

	var tokens []Token
	for i := 0; i < len(units); i++ {
		u := units[i]
		if courses[i] {
			tokens = append(tokens, Token{Kind: Course, Text: u})
			continue
		}
		switch u {
		case ";", ".":
			tokens = append(tokens, Token{Kind: Delimiter, Text: u})
			continue
		case ",":
			tokens = append(tokens, Token{Kind: Comma, Text: u})
			continue
		case "/":
			tokens = append(tokens, Token{Kind: Connector, Text: Slash})
			continue
		}
		tok, ok := lookup(u)
		if !ok {
			continue
		}
		if tok.Kind == Grade {
			tok.Letter, i = gradeLetter(units, courses, i)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// gradeLetter looks past a "grade" unit at i for "[of] X" where X is a
// single letter A-F. It returns the letter and the index of the last unit
// consumed.
func gradeLetter(units []string, courses []bool, i int) (types.Grade, int) {
	j := i + 1
	if j < len(units) && !courses[j] && strings.EqualFold(units[j], "of") {
		j++
	}
	if j < len(units) && !courses[j] && len(units[j]) == 1 {
		if g := types.Grade(strings.ToUpper(units[j])); g.Valid() {
			return g, j
		}
	}
	return types.GradeNone, i
}

// ElideGrade drops every Grade token, and the single connector directly
// after it, so "Grade of C or better" adds nothing to the connector stream.
func ElideGrade(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Kind != Grade {
			out = append(out, tokens[i])
			continue
		}
		if i+1 < len(tokens) && tokens[i+1].Kind == Connector {
			i++
		}
	}
	return out
}

// Split cuts tokens into clauses at each delimiter. Delimiters are dropped
// and empty clauses are omitted.
func Split(tokens []Token) [][]Token {
	var clauses [][]Token
	var cur []Token
	for _, t := range tokens {
		if t.Kind == Delimiter {
			if len(cur) > 0 {
				clauses = append(clauses, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		clauses = append(clauses, cur)
	}
	return clauses
}
