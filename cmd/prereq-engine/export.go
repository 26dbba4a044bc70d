// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereq-engine/internal/catalog"
	"github.com/pdiddy/prereq-engine/internal/graph"
	"github.com/pdiddy/prereq-engine/internal/lexeme"
	"github.com/pdiddy/prereq-engine/internal/secrets"
	"github.com/pdiddy/prereq-engine/pkg/types"
)

// openStore connects to the configured graph store. A PostgreSQL DSN not
// given in config is read from the secrets directory.
func openStore(ctx context.Context, cfg types.StoreConfig) (graph.Store, error) {
	if cfg.Driver == types.DriverPostgres {
		dsn, err := secrets.DSN(cfg.DSN, viper.GetString("secrets_dir"), os.Stderr)
		if err != nil {
			return nil, err
		}
		cfg.DSN = dsn
	}
	return graph.Open(ctx, cfg)
}

var exportCmd = &cobra.Command{
	Use:   "export [course...]",
	Short: "Store requirement graphs for catalog courses",
	Long: `Export parses the catalog prose of each course into a requirement tree
and saves it as a node/edge graph in the configured store, replacing any
graph saved for that course before. Node ids continue from the largest id
already stored.

With --all every catalog course with prose is exported. --out also writes
the graphs to a JSON or YAML file.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	mode, _ := cmd.Flags().GetString("mode")
	out, _ := cmd.Flags().GetString("out")
	if len(args) == 0 && !all {
		return fmt.Errorf("course arguments or --all required")
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	courses := args
	if all {
		courses = c.Courses()
	}
	graphs, err := exportCourses(ctx, store, c, courses, mode, os.Stderr)
	if err != nil {
		return err
	}

	if out != "" {
		if err := graph.WriteFile(out, graphs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d graph(s) to %s\n", len(graphs), out)
	}
	return nil
}

// exportCourses builds and saves the graph of each course, skipping courses
// without catalog prose.
func exportCourses(ctx context.Context, store graph.Store, c catalog.Catalog, courses []string, mode string, w io.Writer) ([]types.Graph, error) {
	last, err := store.MaxNodeID(ctx)
	if err != nil {
		return nil, err
	}
	counter := graph.NewCounter(last)

	var graphs []types.Graph
	for _, course := range courses {
		entry, err := c.Lookup(course)
		if err != nil {
			return graphs, err
		}
		if strings.TrimSpace(entry.Info.Text) == "" {
			fmt.Fprintf(w, "skipped %s (no catalog text)\n", course)
			continue
		}
		t, err := buildTree(mode, lexeme.Canonical(course), entry.Info.Text)
		if err != nil {
			return graphs, fmt.Errorf("building %s: %w", course, err)
		}
		g := graph.Export(t, counter)
		if err := store.SaveGraph(ctx, g); err != nil {
			return graphs, fmt.Errorf("saving %s: %w", course, err)
		}
		fmt.Fprintf(w, "exported %s (%d nodes)\n", g.Course, len(g.Nodes))
		graphs = append(graphs, g)
	}
	return graphs, nil
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect stored requirement graphs",
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses with a stored graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		courses, err := store.Courses(ctx)
		if err != nil {
			return err
		}
		for _, c := range courses {
			fmt.Println(c)
		}
		fmt.Fprintf(os.Stdout, "\n%d courses\n", len(courses))
		return nil
	},
}

var graphShowCmd = &cobra.Command{
	Use:   "show <course>",
	Short: "Print a stored graph as a tree, DOT, JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		g, err := store.Graph(ctx, lexeme.Canonical(args[0]))
		if err != nil {
			return err
		}

		switch format {
		case "text", "":
			t, err := graph.Tree(g)
			if err != nil {
				return err
			}
			printTree(os.Stdout, t)
			return nil
		case "dot":
			return graph.WriteDOT(os.Stdout, g)
		}
		return writeStructured(os.Stdout, format, g)
	},
}

func init() {
	exportCmd.Flags().Bool("all", false, "export every catalog course")
	exportCmd.Flags().String("mode", "bucket", "text reading: bucket or precedence")
	exportCmd.Flags().String("out", "", "also write the graphs to this .json or .yaml file")

	graphShowCmd.Flags().String("format", "text", "output format: text, dot, json or yaml")

	graphCmd.AddCommand(graphListCmd)
	graphCmd.AddCommand(graphShowCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(graphCmd)
}
