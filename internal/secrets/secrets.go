// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files.
// The filename is the key and the trimmed contents are the value, so a
// connection string can live outside the config file:
//
//	secrets/postgres-dsn
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PostgresDSN is the key holding the PostgreSQL connection string.
const PostgresDSN = "postgres-dsn"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on log but do not abort.
func Load(dir string, log io.Writer) (map[string]string, error) {
	if log == nil {
		log = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(log, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// DSN returns the configured connection string when set, otherwise the
// postgres-dsn secret from dir. An empty result means neither was found.
func DSN(configured, dir string, log io.Writer) (string, error) {
	if configured != "" {
		return configured, nil
	}
	s, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	return s[PostgresDSN], nil
}
