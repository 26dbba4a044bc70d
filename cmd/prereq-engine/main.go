// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prereq-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereq-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the prereq-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "prereq-engine",
	Short: "Check course prerequisites against a student record",
	Long: `prereq-engine reads catalog prerequisite prose or compact requirement
expressions and decides whether a student may enroll in a course.

Use check to evaluate a course, parse to inspect how catalog text is read,
export to store requirement graphs, and student or catalog to maintain the
input files.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./prereq-engine.yaml or ~/.config/prereq-engine/prereq-engine.yaml)")
	pf.String("catalog", "data/catalog.json", "catalog JSON keyed by course")
	pf.String("student", "data/student.json", "student record (JSON or YAML)")
	pf.String("store-driver", string(types.DriverSQLite), "graph store: sqlite or postgres")
	pf.String("store-path", "data/prereq.db", "SQLite database file")
	pf.String("store-dsn", "", "PostgreSQL connection string (default: .secrets/postgres-dsn)")
	pf.String("secrets-dir", ".secrets/", "directory of credential files")
	pf.String("concurrency", string(types.ConcurrencyMembership), "concurrent enrollment rule: membership or exact")

	for key, flag := range map[string]string{
		"catalog":            "catalog",
		"student":            "student",
		"store.driver":       "store-driver",
		"store.path":         "store-path",
		"store.dsn":          "store-dsn",
		"secrets_dir":        "secrets-dir",
		"policy.concurrency": "concurrency",
	} {
		viper.BindPFlag(key, pf.Lookup(flag))
	}

	defaults := types.DefaultPolicy()
	viper.SetDefault("policy.text_default_grade", string(defaults.TextDefaultGrade))
	viper.SetDefault("policy.compact_default_grade", string(defaults.CompactDefaultGrade))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prereq-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prereq-engine"))
		}
	}

	viper.SetEnvPrefix("PREREQ_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig collects the settings from flags, environment and config
// file.
func engineConfig() (types.EngineConfig, error) {
	cfg := types.EngineConfig{
		CatalogPath: viper.GetString("catalog"),
		StudentPath: viper.GetString("student"),
		Policy: types.PolicyConfig{
			Concurrency:         types.ConcurrencyMode(strings.ToLower(viper.GetString("policy.concurrency"))),
			TextDefaultGrade:    types.Grade(strings.ToUpper(viper.GetString("policy.text_default_grade"))),
			CompactDefaultGrade: types.Grade(strings.ToUpper(viper.GetString("policy.compact_default_grade"))),
		},
		Store: types.StoreConfig{
			Driver: types.StoreDriver(viper.GetString("store.driver")),
			Path:   viper.GetString("store.path"),
			DSN:    viper.GetString("store.dsn"),
		},
	}

	switch cfg.Policy.Concurrency {
	case types.ConcurrencyMembership, types.ConcurrencyExact:
	default:
		return cfg, fmt.Errorf("unsupported concurrency rule %q: use membership or exact", cfg.Policy.Concurrency)
	}
	for _, g := range []types.Grade{cfg.Policy.TextDefaultGrade, cfg.Policy.CompactDefaultGrade} {
		if g != types.GradeNone && !g.Valid() {
			return cfg, fmt.Errorf("invalid default grade %q", g)
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
