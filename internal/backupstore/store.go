// Package backupstore keeps exported backup documents, either in a local
// directory or in an S3-compatible bucket.
package backupstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
)

// Store saves and loads backup documents by file name.
type Store interface {
	// Put stores data under name and returns where it went.
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Get returns the document stored under name, or common.ErrorNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || base != name || base == "." || base == ".." {
		return "", invalidName(name)
	}
	return base, nil
}

func invalidName(name string) error {
	return fmt.Errorf("%w: invalid backup name %q", common.ErrorValidation, name)
}
