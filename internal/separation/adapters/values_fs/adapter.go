// Package valuesfs discovers and reads Helm values files from a directory tree.
package valuesfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nathantilsley/chart-dbsep/internal/separation/domain"
)

// Adapter implements ports.ValuesSourcePort over an fs.FS. Paths are
// slash-separated and relative to the filesystem root.
type Adapter struct {
	fsys fs.FS
}

// New creates a values source reading from fsys.
func New(fsys fs.FS) *Adapter {
	return &Adapter{fsys: fsys}
}

// NewFromDir creates a values source rooted at dir on the local disk.
func NewFromDir(dir string) *Adapter {
	return New(os.DirFS(dir))
}

// ListValuesFiles returns every file matching pattern in lexical order.
// "**" matches zero or more directories. Hidden directories (".git",
// ".cache", ...) are never descended into.
func (a *Adapter) ListValuesFiles(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var matches []string
	err := fs.WalkDir(a.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == "." {
				return err
			}
			// Unreadable subtree: skip it, the rest of the tree is still checked.
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		ok, err := doublestar.Match(pattern, path)
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking values tree: %w", err)
	}
	return matches, nil
}

// ReadValuesFile reads the full content of path.
func (a *Adapter) ReadValuesFile(_ context.Context, path string) (domain.ValuesFile, error) {
	content, err := fs.ReadFile(a.fsys, path)
	if err != nil {
		return domain.ValuesFile{}, err
	}
	return domain.ValuesFile{Path: path, Content: content}, nil
}
