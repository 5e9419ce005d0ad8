package api

// Policy is the top-level schema of the .chart-dbsep.yaml file
// stored in checked repositories. Every field is optional.
type Policy struct {
	Pattern   string           `yaml:"pattern"`
	Forbidden string           `yaml:"forbidden"`
	Required  []PolicyDatabase `yaml:"required"`
}

// PolicyDatabase names a service database that must exist and what it is for.
type PolicyDatabase struct {
	Name    string `yaml:"name"`
	Purpose string `yaml:"purpose"`
}
