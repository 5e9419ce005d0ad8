// Package policyfile reads separation rules from a YAML file in the checked repository.
package policyfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/chart-dbsep/api"
	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// DefaultPath is where the policy file is looked up when none is configured.
const DefaultPath = ".chart-dbsep.yaml"

// Adapter implements ports.PolicyPort by reading a .chart-dbsep.yaml file.
// A missing file yields the default policy.
type Adapter struct {
	path     string
	required bool
	override domain.Policy
}

// New creates a policy adapter for path. When required is true a missing
// file is an error instead of falling back to defaults.
func New(path string, required bool) *Adapter {
	return &Adapter{path: path, required: required}
}

// WithOverride layers non-empty fields of p over whatever the file says.
// Command-line flags use this.
func (a *Adapter) WithOverride(p domain.Policy) *Adapter {
	a.override = p
	return a
}

// LoadPolicy implements ports.PolicyPort.
func (a *Adapter) LoadPolicy(_ context.Context) (domain.Policy, error) {
	policy := domain.Policy{}

	content, err := os.ReadFile(a.path)
	switch {
	case err == nil:
		policy, err = Parse(content)
		if err != nil {
			return domain.Policy{}, fmt.Errorf("parsing policy %s: %w", a.path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !a.required:
		// No policy file: built-in rules apply.
	default:
		return domain.Policy{}, fmt.Errorf("reading policy %s: %w", a.path, err)
	}

	if a.override.Pattern != "" {
		policy.Pattern = a.override.Pattern
	}
	if a.override.Forbidden != "" {
		policy.Forbidden = a.override.Forbidden
	}
	if len(a.override.Required) > 0 {
		policy.Required = a.override.Required
	}

	return policy.WithDefaults(), nil
}

// Parse decodes a policy document. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func Parse(content []byte) (domain.Policy, error) {
	var doc api.Policy
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Policy{}, err
	}

	policy := domain.Policy{
		Pattern:   doc.Pattern,
		Forbidden: doc.Forbidden,
	}
	for i, r := range doc.Required {
		if strings.TrimSpace(r.Name) == "" {
			return domain.Policy{}, fmt.Errorf("required[%d]: name is empty", i)
		}
		purpose := r.Purpose
		if purpose == "" {
			purpose = r.Name
		}
		policy.Required = append(policy.Required, domain.RequiredDatabase{Name: r.Name, Purpose: purpose})
	}
	return policy, nil
}
