package domain

import (
	"sort"
	"strings"
)

// SourceKind tells which textual pattern produced a DatabaseRef.
type SourceKind int

const (
	SourceDSN         SourceKind = iota // postgresql://user@host/name
	SourceKey                           // database: name / databaseName: name
	SourceDeclaration                   // database-name: name / database_name: name
)

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string {
	if k < 0 || int(k) >= len(sourceKindNames) {
		return "unknown"
	}
	return sourceKindNames[k]
}

var sourceKindNames = [...]string{
	SourceDSN:         "dsn",
	SourceKey:         "key",
	SourceDeclaration: "declaration",
}

// MarshalText lets JSON and YAML encoders emit the kind name.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DatabaseRef is one database identifier found in a values file.
type DatabaseRef struct {
	Name string     `json:"name" yaml:"name"`
	File string     `json:"file" yaml:"file"`
	Line int        `json:"line" yaml:"line"` // 1-based
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Populated only when the surrounding DSN parses as a libpq connection string.
	User string `json:"user,omitempty" yaml:"user,omitempty"`
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}

// DeclaresDatabase reports whether the reference names a service database
// for the required-database check. Only DSNs and explicit database-name
// declarations do; plain database keys are checked against the forbidden
// name only.
func (r DatabaseRef) DeclaresDatabase() bool {
	return r.Kind == SourceDSN || r.Kind == SourceDeclaration
}

// NormalizeName maps hyphenated spellings onto the underscore form,
// so "judge-api" and "judge_api" compare equal.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// DatabaseSet is a set of database identifiers.
type DatabaseSet map[string]struct{}

// NewDatabaseSet returns a set holding names.
func NewDatabaseSet(names ...string) DatabaseSet {
	s := make(DatabaseSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name into the set.
func (s DatabaseSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s DatabaseSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s DatabaseSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Union returns a new set with the members of s and every other set.
func (s DatabaseSet) Union(others ...DatabaseSet) DatabaseSet {
	out := make(DatabaseSet, len(s))
	for n := range s {
		out.Add(n)
	}
	for _, o := range others {
		for n := range o {
			out.Add(n)
		}
	}
	return out
}

// Normalized returns the raw members plus their NormalizeName forms.
func (s DatabaseSet) Normalized() DatabaseSet {
	out := make(DatabaseSet, len(s)*2)
	for n := range s {
		out.Add(n)
		out.Add(NormalizeName(n))
	}
	return out
}
