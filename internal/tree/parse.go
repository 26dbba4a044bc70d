// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tree

import (
	"fmt"

	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/tokenize"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// Parse reads text clause by clause, splitting at ";" and ".". Within a
// clause:
//
//	expression := term ("or" term)*
//	term       := factor (("," | "and") factor)*
//	factor     := course ("/" course)* | "concurrent" factor | classification | exam
//
// Clauses become sibling requirements of course and clauses that yield no
// requirement are dropped.
func Parse(course, text string) (*Tree, error) {
	t := &Tree{Course: lexeme.Canonical(course)}
	for _, clause := range tokenize.Split(tokenize.Text(text)) {
		n, ok, err := parseClause(clause)
		if err != nil {
			return nil, fmt.Errorf("parsing clause: %w", err)
		}
		if ok {
			t.Requirements = append(t.Requirements, n)
		}
	}
	return t, nil
}

func parseClause(clause []tokenize.Token) (Node, bool, error) {
	gradeRequired := false
	letter := types.GradeNone
	for _, tok := range clause {
		if tok.Kind != tokenize.Grade {
			continue
		}
		gradeRequired = true
		if letter == types.GradeNone {
			letter = tok.Letter
		}
	}

	var toks []tokenize.Token
	negated := false
	for _, tok := range tokenize.ElideGrade(clause) {
		switch {
		case tok.Kind == tokenize.Header && tok.Text != tokenize.HeaderConcurrent:
			continue
		case tok.Kind == tokenize.Negation:
			if len(toks) == 0 {
				negated = true
			}
			continue
		}
		toks = append(toks, tok)
	}

	p := &parser{toks: toks}
	n, ok, err := p.expression()
	if err != nil || !ok {
		return Node{}, false, err
	}

	if gradeRequired {
		if n.IsLeaf() {
			if n, err = NewGroup(types.OpAnd, n); err != nil {
				return Node{}, false, err
			}
		}
		n.GradeRequired = true
		n.MinGrade = letter
	}
	if negated {
		if n, err = NewGroup(types.OpNot, n); err != nil {
			return Node{}, false, err
		}
	}
	return n, true, nil
}

// parser is the cursor for one clause.
type parser struct {
	toks []tokenize.Token
	pos  int
}

func (p *parser) peek() (tokenize.Token, bool) {
	if p.pos >= len(p.toks) {
		return tokenize.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) atConnector(text string) bool {
	t, ok := p.peek()
	return ok && t.Kind == tokenize.Connector && t.Text == text
}

func startsFactor(t tokenize.Token) bool {
	switch t.Kind {
	case tokenize.Course, tokenize.Classification, tokenize.Exam:
		return true
	case tokenize.Header:
		return t.Text == tokenize.HeaderConcurrent
	}
	return false
}

func separates(t tokenize.Token) bool {
	if t.Kind == tokenize.Comma {
		return true
	}
	return t.Kind == tokenize.Connector && (t.Text == tokenize.And || t.Text == tokenize.Or)
}

// expression returns the OR of its terms. A bare "concurrent" alternative
// produces no node; it lets the other alternatives be met by enrollment.
func (p *parser) expression() (Node, bool, error) {
	var alts []Node
	bare := false
	for {
		n, isBare, ok, err := p.term()
		if err != nil {
			return Node{}, false, err
		}
		switch {
		case isBare:
			bare = true
		case ok:
			alts = append(alts, n)
		}
		if !p.atConnector(tokenize.Or) {
			break
		}
		for t, ok := p.peek(); ok && (t.Kind == tokenize.Comma || t.Text == tokenize.Or); t, ok = p.peek() {
			p.pos++
		}
	}

	if bare {
		for i := range alts {
			d, err := concurrent(alts[i])
			if err != nil {
				return Node{}, false, err
			}
			alts[i] = d
		}
	}
	return join(types.OpOr, alts)
}

// term returns the AND of its factors. Adjacent factors with no separator
// are joined too.
func (p *parser) term() (n Node, bare, ok bool, err error) {
	var factors []Node
	for {
		f, isBare, fok, ferr := p.factor()
		if ferr != nil {
			return Node{}, false, false, ferr
		}
		switch {
		case isBare:
			bare = true
		case fok:
			factors = append(factors, f)
		}
		if !p.andSeparator() {
			break
		}
	}
	if len(factors) == 0 {
		return Node{}, bare, false, nil
	}
	n, ok, err = join(types.OpAnd, factors)
	return n, bare, ok, err
}

// andSeparator consumes commas and "and" and reports whether another
// factor of the same term may follow.
func (p *parser) andSeparator() bool {
	for t, ok := p.peek(); ok && (t.Kind == tokenize.Comma || (t.Kind == tokenize.Connector && t.Text == tokenize.And)); t, ok = p.peek() {
		p.pos++
	}
	t, ok := p.peek()
	if !ok {
		return false
	}
	return !(t.Kind == tokenize.Connector && t.Text == tokenize.Or)
}

// factor skips tokens that cannot start a factor and stops at separators.
func (p *parser) factor() (n Node, bare, ok bool, err error) {
	for {
		t, more := p.peek()
		if !more || separates(t) {
			return Node{}, false, false, nil
		}
		if startsFactor(t) {
			break
		}
		p.pos++
	}

	t, _ := p.peek()
	p.pos++
	switch t.Kind {
	case tokenize.Classification:
		c, cerr := types.ParseClassification(t.Text)
		if cerr != nil {
			return Node{}, false, false, nil
		}
		return Classification(c), false, true, nil
	case tokenize.Exam:
		return Exam(), false, true, nil
	case tokenize.Header:
		next, more := p.peek()
		if !more || !startsFactor(next) {
			return Node{}, true, false, nil
		}
		inner, _, iok, ierr := p.factor()
		if ierr != nil || !iok {
			return Node{}, false, false, ierr
		}
		n, err = concurrent(inner)
		return n, false, err == nil, err
	}
	return p.courseRun(t)
}

// courseRun reads "A/B/C" after its first course and returns an OR of the
// courses, or the single course leaf.
func (p *parser) courseRun(first tokenize.Token) (Node, bool, bool, error) {
	leaves := []Node{courseLeaf(first.Text)}
	for p.atConnector(tokenize.Slash) {
		if p.pos+1 >= len(p.toks) || p.toks[p.pos+1].Kind != tokenize.Course {
			break
		}
		leaves = append(leaves, courseLeaf(p.toks[p.pos+1].Text))
		p.pos += 2
	}
	if len(leaves) == 1 {
		return leaves[0], false, true, nil
	}
	n, err := NewGroup(types.OpOr, leaves...)
	return n, false, err == nil, err
}

func courseLeaf(code string) Node {
	l, ok := lexeme.ParseCourse(code)
	if !ok {
		return Node{Kind: KindCourse, Value: code}
	}
	return Course(l)
}

// concurrent marks n as satisfiable by enrollment. A group is wrapped in a
// one-child AND carrying the mark.
func concurrent(n Node) (Node, error) {
	if n.IsLeaf() {
		n.Concurrent = true
		return n, nil
	}
	w, err := NewGroup(types.OpAnd, n)
	if err != nil {
		return Node{}, err
	}
	w.Concurrent = true
	return w, nil
}

// join returns the single node, or a group of nodes joined by op with
// undecorated same-operator children flattened into it.
func join(op types.Operator, nodes []Node) (Node, bool, error) {
	switch len(nodes) {
	case 0:
		return Node{}, false, nil
	case 1:
		return nodes[0], true, nil
	}
	var flat []Node
	for _, n := range nodes {
		if n.Kind == KindGroup && n.Op == op && !n.decorated() {
			flat = append(flat, n.Children...)
			continue
		}
		flat = append(flat, n)
	}
	g, err := NewGroup(op, flat...)
	return g, err == nil, err
}
