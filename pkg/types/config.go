// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConcurrencyMode selects how a concurrent-allowed requirement matches the
// enrollment list.
type ConcurrencyMode string

const (
	// ConcurrencyMembership accepts any enrollment entry for the course.
	ConcurrencyMembership ConcurrencyMode = "membership"

	// ConcurrencyExact accepts only an enrollment entry written in the
	// requirement's grade-qualified concurrent form, e.g. "CHEM107 C ^".
	ConcurrencyExact ConcurrencyMode = "exact"
)

// PolicyConfig holds the evaluation choices the catalog data leaves open.
type PolicyConfig struct {
	// Concurrency selects the enrollment matching rule (default membership).
	Concurrency ConcurrencyMode `json:"concurrency" yaml:"concurrency"`

	// TextDefaultGrade is the minimum grade for requirements parsed from
	// catalog prose that name none (default "D").
	TextDefaultGrade Grade `json:"text_default_grade" yaml:"text_default_grade"`

	// CompactDefaultGrade is the minimum grade for compact lexemes without
	// a grade suffix (default none: any earned grade passes).
	CompactDefaultGrade Grade `json:"compact_default_grade" yaml:"compact_default_grade"`
}

// DefaultPolicy returns the policy used when no configuration is given.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		Concurrency:         ConcurrencyMembership,
		TextDefaultGrade:    GradeD,
		CompactDefaultGrade: GradeNone,
	}
}

// StoreDriver identifies the graph storage backend.
type StoreDriver string

const (
	DriverSQLite   StoreDriver = "sqlite"
	DriverPostgres StoreDriver = "postgres"
)

// StoreConfig holds settings for the exported graph store.
type StoreConfig struct {
	// Driver selects sqlite or postgres.
	Driver StoreDriver `json:"driver" yaml:"driver"`

	// Path is the SQLite database file (e.g. "data/prereq.db").
	Path string `json:"path" yaml:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// EngineConfig groups every setting the CLI reads.
type EngineConfig struct {
	// CatalogPath is the JSON catalog keyed by course (e.g. "ECEN_403").
	CatalogPath string `json:"catalog" yaml:"catalog"`

	// StudentPath is the student record file (JSON or YAML).
	StudentPath string `json:"student" yaml:"student"`

	Policy PolicyConfig `json:"policy" yaml:"policy"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
