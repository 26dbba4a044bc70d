// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package student reads and writes student record files. A record is JSON
// unless the path ends in .yaml or .yml:
//
//	{"taken": ["ECEN314 C"], "enrolled": ["ECEN449 C ^"], "classification": "Senior"}
package student

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// LoadError reports a student file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading student record %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the record at path. The classification is normalized so
// "senior" and "Senior" both load as types.Senior.
func Load(path string) (types.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Student{}, &LoadError{Path: path, Err: err}
	}

	var s types.Student
	if isYAML(path) {
		err = yaml.Unmarshal(data, &s)
	} else {
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return types.Student{}, &LoadError{Path: path, Err: err}
	}

	if s.Classification != "" {
		c, err := types.ParseClassification(string(s.Classification))
		if err != nil {
			return types.Student{}, &LoadError{Path: path, Err: err}
		}
		s.Classification = c
	}
	return s, nil
}

// Save writes s to path, creating parent directories.
func Save(path string, s types.Student) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating student directory: %w", err)
	}

	if s.Taken == nil {
		s.Taken = []string{}
	}
	if s.Enrolled == nil {
		s.Enrolled = []string{}
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshaling student record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing student record %s: %w", path, err)
	}
	return nil
}

// TakenEntry returns the canonical "DEPTNUM GRADE" spelling of a completed
// course entry.
func TakenEntry(s string) (string, error) {
	r, ok := lexeme.ParseTranscript(s)
	if !ok {
		return "", fmt.Errorf("invalid transcript entry %q", s)
	}
	entry := r.Department + r.Number
	if r.Grade != types.GradeNone {
		entry += " " + string(r.Grade)
	}
	return entry, nil
}

// EnrolledEntry returns the canonical "DEPTNUM [GRADE] ^" spelling of an
// in-progress course entry. The "^" marker is kept only when present.
func EnrolledEntry(s string) (string, error) {
	r, ok := lexeme.ParseEnrollment(s)
	if !ok {
		return "", fmt.Errorf("invalid enrollment entry %q", s)
	}
	entry := r.Department + r.Number
	if r.Grade != types.GradeNone {
		entry += " " + string(r.Grade)
	}
	if r.Concurrent {
		entry += " ^"
	}
	return entry, nil
}

// AddTaken appends completed courses to s, skipping duplicates. It returns
// the entries actually added.
func AddTaken(s *types.Student, entries ...string) ([]string, error) {
	return add(&s.Taken, TakenEntry, entries)
}

// AddEnrolled appends in-progress courses to s, skipping duplicates.
func AddEnrolled(s *types.Student, entries ...string) ([]string, error) {
	return add(&s.Enrolled, EnrolledEntry, entries)
}

func add(list *[]string, canon func(string) (string, error), entries []string) ([]string, error) {
	var added []string
	for _, e := range entries {
		c, err := canon(e)
		if err != nil {
			return added, err
		}
		if slices.Contains(*list, c) {
			continue
		}
		*list = append(*list, c)
		added = append(added, c)
	}
	return added, nil
}
