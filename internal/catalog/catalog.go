// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads course requirement data. A catalog file is a JSON
// object keyed by DEPT_NUM, each entry holding a compact expression and the
// catalog's prose:
//
//	{"ECEN_403": {"info": {"prereqs": ["ECEN314C", ".", "ECEN325C"], "text": "..."}}}
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/prereq-engine/internal/compact"
	"github.com/pdiddy/prereq-engine/internal/lexeme"
)

// ErrCourseNotFound is returned by Lookup for a course the catalog lacks.
var ErrCourseNotFound = errors.New("course not found in catalog")

// LoadError reports a catalog file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading catalog %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Info is the requirement data of one course.
type Info struct {
	// Prereqs is the compact form; absent when only prose is known.
	Prereqs compact.Expression `json:"prereqs,omitempty"`

	// Text is the catalog's prerequisite paragraph.
	Text string `json:"text,omitempty"`
}

// Entry is one catalog value.
type Entry struct {
	Info Info `json:"info"`
}

// Catalog maps normalized course keys to entries.
type Catalog map[string]Entry

// NormalizeKey returns the DEPT_NUM key for a course written as
// "ECEN 403", "ecen403" or "ECEN_403". Other strings are uppercased with
// spaces replaced by underscores.
func NormalizeKey(course string) string {
	if l, ok := lexeme.ParseCourse(course); ok {
		return l.Department + "_" + l.Number
	}
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(course)), " ", "_")
}

// Load reads the catalog at path. Keys are normalized on load.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	c := make(Catalog, len(raw))
	for k, v := range raw {
		c[NormalizeKey(k)] = v
	}
	return c, nil
}

// Save writes the catalog to path as indented JSON, creating parent
// directories.
func (c Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}

// Lookup returns the entry for course in any accepted spelling.
func (c Catalog) Lookup(course string) (Entry, error) {
	e, ok := c[NormalizeKey(course)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrCourseNotFound, course)
	}
	return e, nil
}

// Courses returns the catalog keys in sorted order.
func (c Catalog) Courses() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Merge sets the prose of each course in texts, keeping any compact
// expression already present. It returns the number of new courses.
func (c Catalog) Merge(texts map[string]string) int {
	added := 0
	for course, text := range texts {
		key := NormalizeKey(course)
		e, ok := c[key]
		if !ok {
			added++
		}
		e.Info.Text = text
		c[key] = e
	}
	return added
}
