// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prereq-engine/internal/bucket"
	"github.com/pdiddy/prereq-engine/internal/catalog"
	"github.com/pdiddy/prereq-engine/internal/graph"
	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/tokenize"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Show how catalog prose is read",
	Long: `Parse tokenizes catalog prerequisite prose and prints the requirement
it yields. In bucket mode the bucket groups are printed before the tree.

The text is taken from the arguments, or from the catalog entry of --course
when no arguments are given.`,
	RunE: runParse,
}

// parsed is the structured output of parse.
type parsed struct {
	Buckets types.Buckets `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Graph   types.Graph   `json:"graph" yaml:"graph"`
}

func runParse(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	course, _ := cmd.Flags().GetString("course")
	format, _ := cmd.Flags().GetString("format")
	showTokens, _ := cmd.Flags().GetBool("tokens")
	course = lexeme.Canonical(course)

	text := strings.Join(args, " ")
	if text == "" {
		if course == "" {
			return fmt.Errorf("text or --course required")
		}
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		entry, err := c.Lookup(course)
		if err != nil {
			return err
		}
		text = entry.Info.Text
	}

	t, err := buildTree(mode, course, text)
	if err != nil {
		return err
	}

	if format != "text" && format != "" {
		out := parsed{Graph: graph.Export(t, graph.NewCounter(0))}
		if mode != "precedence" {
			out.Buckets = bucket.Parse(text)
		}
		return writeStructured(os.Stdout, format, out)
	}

	if showTokens {
		tokens := tokenize.Text(text)
		parts := make([]string, len(tokens))
		for i, tok := range tokens {
			parts[i] = tok.String()
		}
		fmt.Fprintf(os.Stdout, "Tokens: %s\n\n", strings.Join(parts, " "))
	}
	if mode != "precedence" {
		printBuckets(os.Stdout, bucket.Parse(text))
		fmt.Fprintln(os.Stdout)
	}
	printTree(os.Stdout, t)
	return nil
}

func init() {
	parseCmd.Flags().String("mode", "bucket", "text reading: bucket or precedence")
	parseCmd.Flags().String("course", "", "course the text belongs to, or whose catalog text to parse")
	parseCmd.Flags().String("format", "text", "output format: text, json or yaml")
	parseCmd.Flags().Bool("tokens", false, "print the token stream first")

	rootCmd.AddCommand(parseCmd)
}
