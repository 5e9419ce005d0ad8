package domain

const (
	// DefaultPattern selects the Helm values files to scan, relative to the root.
	DefaultPattern = "charts/**/values*.yaml"

	// DefaultForbidden is the shared database every service must avoid.
	DefaultForbidden = "postgres"
)

// RequiredDatabase is a service database that must appear somewhere in the corpus.
type RequiredDatabase struct {
	Name    string
	Purpose string
}

// Policy is the set of rules a corpus is checked against.
type Policy struct {
	Pattern   string
	Forbidden string
	Required  []RequiredDatabase
}

// DefaultPolicy returns the built-in rules: judge_api, archivista and kratos
// must each own a database and nobody may use "postgres".
func DefaultPolicy() Policy {
	return Policy{
		Pattern:   DefaultPattern,
		Forbidden: DefaultForbidden,
		Required: []RequiredDatabase{
			{Name: "judge_api", Purpose: "Judge API"},
			{Name: "archivista", Purpose: "Archivista"},
			{Name: "kratos", Purpose: "Kratos identity service"},
		},
	}
}

// WithDefaults fills empty fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if p.Pattern == "" {
		p.Pattern = def.Pattern
	}
	if p.Forbidden == "" {
		p.Forbidden = def.Forbidden
	}
	if len(p.Required) == 0 {
		p.Required = def.Required
	}
	return p
}

// Missing returns the required databases absent from present, in policy order.
// present is compared after normalisation on both sides.
func (p Policy) Missing(present DatabaseSet) []RequiredDatabase {
	normalized := present.Normalized()
	var missing []RequiredDatabase
	for _, r := range p.Required {
		if normalized.Has(r.Name) || normalized.Has(NormalizeName(r.Name)) {
			continue
		}
		missing = append(missing, r)
	}
	return missing
}
