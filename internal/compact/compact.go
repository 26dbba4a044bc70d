// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compact decodes and evaluates the nested-array requirement form
// stored in the catalog. Adjacent elements of one array are ANDed; the
// separator string "." splits an array into OR alternatives; a nested array
// is a parenthesized sub-expression.
//
//	["COMM205C", ["ECEN314C", ".", "ECEN449C^"], true]
package compact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Separator is the OR marker.
const Separator = "."

// ElementKind tags the variant an Element holds.
type ElementKind int

const (
	ElemCourse ElementKind = iota
	ElemSeparator
	ElemBool
	ElemNested
)

// Element is one entry of an Expression.
type Element struct {
	Kind ElementKind

	// Course is the raw lexeme string, e.g. "CHEM107C^".
	Course string

	Bool   bool
	Nested Expression
}

// Expression is one array level of the compact form.
type Expression []Element

// Course returns a course element.
func Course(s string) Element { return Element{Kind: ElemCourse, Course: s} }

// Sep returns the OR separator element.
func Sep() Element { return Element{Kind: ElemSeparator} }

// Bool returns a pre-resolved element.
func Bool(b bool) Element { return Element{Kind: ElemBool, Bool: b} }

// Nested returns a sub-expression element.
func Nested(e Expression) Element { return Element{Kind: ElemNested, Nested: e} }

// Decode parses a JSON array into an Expression.
func Decode(data []byte) (Expression, error) {
	var e Expression
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// UnmarshalJSON accepts arrays whose members are strings, booleans or
// arrays. A JSON null leaves e unchanged; any other JSON kind is an error.
func (e *Expression) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding compact expression: %w", err)
	}
	out := make(Expression, 0, len(raw))
	for i, r := range raw {
		el, err := decodeElement(r)
		if err != nil {
			return fmt.Errorf("decoding element %d: %w", i, err)
		}
		out = append(out, el)
	}
	*e = out
	return nil
}

func decodeElement(r json.RawMessage) (Element, error) {
	trimmed := bytes.TrimSpace(r)
	if len(trimmed) == 0 {
		return Element{}, fmt.Errorf("empty element")
	}
	switch trimmed[0] {
	case '[':
		var nested Expression
		if err := nested.UnmarshalJSON(trimmed); err != nil {
			return Element{}, err
		}
		return Nested(nested), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Element{}, err
		}
		if s == Separator {
			return Sep(), nil
		}
		return Course(s), nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(trimmed))
		if err != nil {
			return Element{}, fmt.Errorf("invalid boolean %s", trimmed)
		}
		return Bool(b), nil
	}
	return Element{}, fmt.Errorf("unsupported element %s", trimmed)
}

// MarshalJSON writes the expression back in its array form.
func (e Expression) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(e))
	for _, el := range e {
		switch el.Kind {
		case ElemCourse:
			out = append(out, el.Course)
		case ElemSeparator:
			out = append(out, Separator)
		case ElemBool:
			out = append(out, el.Bool)
		case ElemNested:
			out = append(out, el.Nested)
		}
	}
	return json.Marshal(out)
}

// IsOr reports whether this level holds any separator.
func (e Expression) IsOr() bool {
	for _, el := range e {
		if el.Kind == ElemSeparator {
			return true
		}
	}
	return false
}
