package domain

// ValuesFile represents a Helm values file.
type ValuesFile struct {
	Path    string
	Content []byte
}

// Extraction holds the database references one values file yields.
type Extraction struct {
	DSNs []DatabaseRef // from postgresql:// connection strings
	Keys []DatabaseRef // from database: / databaseName: keys
}
