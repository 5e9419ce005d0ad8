package domain

// FileFailure records a values file that could not be read.
type FileFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Report is the outcome of one separation check.
type Report struct {
	Policy       Policy
	FilesScanned int           // files matching the pattern
	FilesChecked []string      // files carrying database configuration
	Failures     []FileFailure // files skipped because they could not be read
	Found        DatabaseSet   // identifiers taken from connection strings
	Declared     DatabaseSet   // identifiers taken from database-name / database_name declarations
	References   []DatabaseRef
	Issues       []Issue // discovery order
}

// HasIssues reports whether the check found any error or warning.
func (r Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// ExitCode is 1 when any issue was recorded, 0 otherwise.
func (r Report) ExitCode() int {
	if r.HasIssues() {
		return 1
	}
	return 0
}

// IssueLines renders every issue with Issue.String, one per element.
func (r Report) IssueLines() []string {
	lines := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		lines = append(lines, i.String())
	}
	return lines
}
