// Package regexextract finds database identifiers in values files with
// textual patterns, so templated values that are not valid YAML still count.
package regexextract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

var (
	// postgresql://<user...>@<host...>/<name>; neither part may cross a line.
	// The name stops at the first character outside [A-Za-z0-9_], so
	// ".../postgres-shared" still yields "postgres".
	dsnPattern = regexp.MustCompile(`postgresql://[^@\n]+@[^/\n]+/([A-Za-z0-9_]+)`)

	// database: name and databaseName: name. The value must sit on the same
	// line as the key and may be quoted.
	keyPattern = regexp.MustCompile(`database(?:Name)?:[ \t]*["']?([A-Za-z0-9_]+)`)

	// database-name: name and database_name: name. Values may be hyphenated.
	declPattern = regexp.MustCompile(`database[-_]name:[ \t]*["']?([A-Za-z0-9_-]+)`)
)

// Adapter implements ports.ExtractorPort.
type Adapter struct{}

// New creates a new regex extraction adapter.
func New() *Adapter {
	return &Adapter{}
}

// Extract returns every DSN and key-name reference in file. ok is false when
// the file mentions neither a postgresql:// DSN nor a database key.
func (a *Adapter) Extract(file domain.ValuesFile) (domain.Extraction, bool) {
	content := string(file.Content)
	if !HasDatabaseConfig(content) {
		return domain.Extraction{}, false
	}

	var out domain.Extraction
	for _, m := range dsnPattern.FindAllStringSubmatchIndex(content, -1) {
		ref := domain.DatabaseRef{
			Name: content[m[2]:m[3]],
			File: file.Path,
			Line: lineAt(content, m[0]),
			Kind: domain.SourceDSN,
		}
		ref.User, ref.Host = connectionParty(content[m[0]:m[1]])
		out.DSNs = append(out.DSNs, ref)
	}
	out.Keys = appendKeys(out.Keys, file.Path, content, keyPattern, domain.SourceKey)
	out.Keys = appendKeys(out.Keys, file.Path, content, declPattern, domain.SourceDeclaration)
	sort.SliceStable(out.Keys, func(i, j int) bool { return out.Keys[i].Line < out.Keys[j].Line })
	return out, true
}

// HasDatabaseConfig reports whether content is worth inspecting.
func HasDatabaseConfig(content string) bool {
	return strings.Contains(content, "postgresql://") ||
		strings.Contains(content, "database:") ||
		keyPattern.MatchString(content) ||
		declPattern.MatchString(content)
}

func appendKeys(refs []domain.DatabaseRef, path, content string, re *regexp.Regexp, kind domain.SourceKind) []domain.DatabaseRef {
	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		refs = append(refs, domain.DatabaseRef{
			Name: content[m[2]:m[3]],
			File: path,
			Line: lineAt(content, m[0]),
			Kind: kind,
		})
	}
	return refs
}

// connectionParty parses dsn as a libpq connection string and returns its
// user and first host. Helm placeholders usually make the DSN unparsable;
// that is not a finding, the fields are just left empty.
func connectionParty(dsn string) (user, host string) {
	cfg, err := pgconn.ParseConfig(dsn)
	if err != nil {
		return "", ""
	}
	return cfg.User, cfg.Host
}

func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
