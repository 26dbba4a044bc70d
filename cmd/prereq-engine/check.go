// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prereq-engine/internal/catalog"
	"github.com/pdiddy/prereq-engine/internal/check"
	"github.com/pdiddy/prereq-engine/internal/compact"
	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/resolve"
	"github.com/pdiddy/prereq-engine/internal/student"
	"github.com/pdiddy/prereq-engine/internal/tree"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check <course>",
	Short: "Check whether the student may take a course",
	Long: `Check evaluates a course's requirement against the student record and
prints every node with its status. The requirement comes from the catalog,
or from --text (catalog prose) or --compact (a JSON compact expression).

With --source auto the compact expression is used when the catalog has one
and the prose otherwise. The command exits non-zero when the requirement is
not met.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	course := lexeme.Canonical(args[0])

	req, err := requirementFromFlags(cmd, cfg, course)
	if err != nil {
		return err
	}

	s, err := studentFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	result := check.Check(req, s, resolve.PolicyFrom(cfg.Policy))

	format, _ := cmd.Flags().GetString("format")
	if format == "text" || format == "" {
		printResult(os.Stdout, result)
	} else if err := writeStructured(os.Stdout, format, result); err != nil {
		return err
	}

	if !result.Eligible() {
		return fmt.Errorf("%s: requirements not met (%s)", course, result.Status)
	}
	return nil
}

// buildTree reads text with the chosen tree builder.
func buildTree(mode, course, text string) (*tree.Tree, error) {
	switch mode {
	case "bucket", "":
		return tree.FromText(course, text)
	case "precedence":
		return tree.Parse(course, text)
	}
	return nil, fmt.Errorf("unsupported mode %q: use bucket or precedence", mode)
}

func requirementFromFlags(cmd *cobra.Command, cfg types.EngineConfig, course string) (check.Requirement, error) {
	mode, _ := cmd.Flags().GetString("mode")
	source, _ := cmd.Flags().GetString("source")
	text, _ := cmd.Flags().GetString("text")
	raw, _ := cmd.Flags().GetString("compact")

	switch {
	case text != "":
		t, err := buildTree(mode, course, text)
		if err != nil {
			return check.Requirement{}, err
		}
		return check.FromTree(t), nil
	case raw != "":
		e, err := compact.Decode([]byte(raw))
		if err != nil {
			return check.Requirement{}, fmt.Errorf("reading --compact: %w", err)
		}
		return check.FromCompact(course, e), nil
	}

	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return check.Requirement{}, err
	}
	entry, err := c.Lookup(course)
	if err != nil {
		return check.Requirement{}, err
	}
	return entryRequirement(entry, course, mode, source)
}

// entryRequirement picks the catalog form named by source. Auto prefers the
// compact expression when the entry has one.
func entryRequirement(entry catalog.Entry, course, mode, source string) (check.Requirement, error) {
	useCompact := entry.Info.Prereqs != nil
	switch source {
	case "compact":
		useCompact = true
	case "text":
		useCompact = false
	case "auto", "":
	default:
		return check.Requirement{}, fmt.Errorf("unsupported source %q: use auto, text or compact", source)
	}

	if useCompact {
		return check.FromCompact(course, entry.Info.Prereqs), nil
	}
	t, err := buildTree(mode, course, entry.Info.Text)
	if err != nil {
		return check.Requirement{}, err
	}
	return check.FromTree(t), nil
}

// studentFromFlags loads the student record and applies --taken and
// --enrolled. A missing record file is an empty record when either flag is
// given.
func studentFromFlags(cmd *cobra.Command, cfg types.EngineConfig) (types.Student, error) {
	taken, _ := cmd.Flags().GetStringSlice("taken")
	enrolled, _ := cmd.Flags().GetStringSlice("enrolled")
	standing, _ := cmd.Flags().GetString("classification")

	s, err := student.Load(cfg.StudentPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || len(taken)+len(enrolled) == 0 {
			return types.Student{}, err
		}
		s = types.Student{}
	}
	if _, err := student.AddTaken(&s, taken...); err != nil {
		return types.Student{}, err
	}
	if _, err := student.AddEnrolled(&s, enrolled...); err != nil {
		return types.Student{}, err
	}
	if standing != "" {
		c, err := types.ParseClassification(standing)
		if err != nil {
			return types.Student{}, err
		}
		s.Classification = c
	}
	return s, nil
}

func init() {
	checkCmd.Flags().String("text", "", "catalog prose to check instead of the catalog entry")
	checkCmd.Flags().String("compact", "", "compact expression (JSON array) to check instead of the catalog entry")
	checkCmd.Flags().String("mode", "bucket", "text reading: bucket or precedence")
	checkCmd.Flags().String("source", "auto", "catalog field to check: auto, text or compact")
	checkCmd.Flags().String("format", "text", "output format: text, json or yaml")
	checkCmd.Flags().StringSlice("taken", nil, "extra completed courses, e.g. \"ECEN314 C\"")
	checkCmd.Flags().StringSlice("enrolled", nil, "extra in-progress courses, e.g. \"ECEN449 ^\"")
	checkCmd.Flags().String("classification", "", "override the student's classification")

	rootCmd.AddCommand(checkCmd)
}
