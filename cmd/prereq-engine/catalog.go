// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prereq-engine/internal/catalog"
	"github.com/pdiddy/prereq-engine/internal/httputil"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Maintain the course catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import prerequisite prose from catalog HTML pages",
	Long: `Import reads catalog pages (local files with --file, or fetched with
--url) and stores the prerequisite paragraph of every course block in the
catalog file. Compact expressions already in the catalog are kept.`,
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("file")
	urls, _ := cmd.Flags().GetStringSlice("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if len(files)+len(urls) == 0 {
		return fmt.Errorf("--file or --url required")
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		c = catalog.Catalog{}
	}

	total := 0
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		texts, err := catalog.ScrapeHTML(f, os.Stderr)
		f.Close()
		if err != nil {
			return err
		}
		total += len(texts)
		fmt.Fprintf(os.Stderr, "%s: %d courses, %d new\n", path, len(texts), c.Merge(texts))
	}

	fetcher := httputil.Fetcher{Log: os.Stderr}
	for _, url := range urls {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		texts, err := catalog.Fetch(ctx, fetcher, url)
		cancel()
		if err != nil {
			return err
		}
		total += len(texts)
		fmt.Fprintf(os.Stderr, "%s: %d courses, %d new\n", url, len(texts), c.Merge(texts))
	}

	if err := c.Save(cfg.CatalogPath); err != nil {
		return err
	}
	fmt.Printf("Imported %d course(s) into %s\n", total, cfg.CatalogPath)
	return nil
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		for _, key := range c.Courses() {
			info := c[key].Info
			forms := ""
			if info.Prereqs != nil {
				forms += " compact"
			}
			if info.Text != "" {
				forms += " text"
			}
			fmt.Printf("%-10s%s\n", key, forms)
		}
		fmt.Printf("\n%d courses\n", len(c))
		return nil
	},
}

func init() {
	catalogImportCmd.Flags().StringSlice("file", nil, "catalog HTML files to import")
	catalogImportCmd.Flags().StringSlice("url", nil, "catalog page URLs to fetch and import")
	catalogImportCmd.Flags().Duration("timeout", 2*time.Minute, "time limit per fetched page, including retries")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
