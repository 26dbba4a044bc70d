//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets that drive the CLI over the data directory.
type Catalog mg.Namespace

// Import scrapes every HTML page under data/pages into data/catalog.json.
func (Catalog) Import() error {
	mg.Deps(Init, Build)

	pages, err := filepath.Glob(filepath.Join("data", "pages", "*.html"))
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Println("[catalog] No pages in data/pages; nothing to import.")
		return nil
	}
	args := []string{"catalog", "import"}
	for _, p := range pages {
		args = append(args, "--file", p)
	}
	return sh.RunV(binPath, args...)
}

// Export stores the graph of every catalog course and writes
// data/graphs/graphs.json.
func (Catalog) Export() error {
	mg.Deps(Init, Build)

	if _, err := os.Stat(filepath.Join("data", "catalog.json")); err != nil {
		return fmt.Errorf("data/catalog.json missing; run mage catalog:import first: %w", err)
	}
	return sh.RunV(binPath, "export", "--all", "--out", filepath.Join("data", "graphs", "graphs.json"))
}
