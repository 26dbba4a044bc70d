// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereq-engine/internal/check"
	"github.com/pdiddy/prereq-engine/internal/compact"
	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q: use text, json or yaml", format)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func nodeSuffix(n tree.Node) string {
	var parts []string
	if n.Bucket != "" {
		parts = append(parts, string(n.Bucket))
	}
	if n.MinGrade != types.GradeNone {
		parts = append(parts, "grade "+string(n.MinGrade))
	} else if n.GradeRequired {
		parts = append(parts, "grade")
	}
	if n.Concurrent {
		parts = append(parts, "concurrent")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// printTree writes one line per node, children indented under parents.
func printTree(w io.Writer, t *tree.Tree) {
	fmt.Fprintf(w, "%s\n", t.Course)
	if len(t.Requirements) == 0 {
		fmt.Fprintln(w, "  (no requirements)")
		return
	}
	for _, r := range t.Requirements {
		r.Walk(func(n tree.Node, depth int) {
			fmt.Fprintf(w, "%s%s%s\n", indent(depth+1), n.Label(), nodeSuffix(n))
		})
	}
}

// printBuckets writes each non-empty bucket and its groups.
func printBuckets(w io.Writer, b types.Buckets) {
	if b.IsEmpty() {
		fmt.Fprintln(w, "(no requirements)")
		return
	}
	for _, cat := range types.BucketOrder {
		groups := b[cat]
		if len(groups) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", cat)
		for _, g := range groups {
			line := fmt.Sprintf("  %-3s %s", g.Op, strings.Join(g.Items, ", "))
			if g.MinGrade != types.GradeNone {
				line += " (grade " + string(g.MinGrade) + " or better)"
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printEvaluated(w io.Writer, e check.Evaluated, depth int) {
	fmt.Fprintf(w, "%s%s%s  [%s]\n", indent(depth), e.Label, nodeSuffix(e.Node), e.Status)
	for _, c := range e.Children {
		printEvaluated(w, c, depth+1)
	}
}

func printAnalysis(w io.Writer, a compact.Analysis, depth int) {
	fmt.Fprintf(w, "%s%s  [%s]\n", indent(depth), a.Label, a.Status)
	for _, c := range a.Children {
		printAnalysis(w, c, depth+1)
	}
}

// printResult writes the annotated requirement and the verdict line.
func printResult(w io.Writer, r check.Result) {
	fmt.Fprintf(w, "%s: %s\n", r.Course, r.Status)
	for _, e := range r.Requirements {
		printEvaluated(w, e, 1)
	}
	if r.Compact != nil {
		printAnalysis(w, *r.Compact, 1)
	}

	verdict := "can NOT be taken"
	if r.Eligible() {
		verdict = "can be taken"
	}
	fmt.Fprintf(w, "\n%s %s\n", r.Course, verdict)
}
