// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prereq-engine/internal/catalog"
	"github.com/pdiddy/prereq-engine/internal/graph"
)

func TestBuildTree(t *testing.T) {
	for _, mode := range []string{"", "bucket", "precedence"} {
		tr, err := buildTree(mode, "ECEN 403", "ECEN 314 and ECEN 325.")
		require.NoError(t, err, mode)
		assert.Len(t, tr.Requirements, 1)
	}
	_, err := buildTree("regex", "ECEN 403", "x")
	assert.ErrorContains(t, err, "unsupported mode")
}

func TestExportCourses(t *testing.T) {
	ctx := context.Background()
	store, err := graph.NewSQLiteStore(filepath.Join(t.TempDir(), "prereq.db"))
	require.NoError(t, err)
	defer store.Close()

	c := catalog.Catalog{
		"ECEN_403": {Info: catalog.Info{Text: "Prerequisite: ECEN 314 or ECEN 325."}},
		"MATH_151": {Info: catalog.Info{}},
	}

	var log strings.Builder
	graphs, err := exportCourses(ctx, store, c, c.Courses(), "bucket", &log)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Contains(t, log.String(), "exported ECEN 403 (4 nodes)")
	assert.Contains(t, log.String(), "skipped MATH_151 (no catalog text)")

	// A second run continues ids after the stored maximum.
	again, err := exportCourses(ctx, store, c, []string{"ECEN 403"}, "bucket", &log)
	require.NoError(t, err)
	assert.Greater(t, again[0].RootID, graphs[0].Nodes[len(graphs[0].Nodes)-1].ID)

	_, err = exportCourses(ctx, store, c, []string{"CSCE 999"}, "bucket", &log)
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
}
