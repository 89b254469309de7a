package storage

import (
	"context"
	"path"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrObjectNotFound = crerr.New("object not found")
	ErrInvalidName    = crerr.New("invalid object name")
)

// Loader reads one template or font binary by name.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// cleanName rejects absolute and parent-relative names and normalizes slashes.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return "", crerr.Wrap(ErrInvalidName, "name is empty")
	}
	if strings.HasPrefix(name, "/") {
		return "", crerr.Wrapf(ErrInvalidName, "absolute name %q", name)
	}
	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", crerr.Wrapf(ErrInvalidName, "name %q escapes the store root", name)
	}
	return cleaned, nil
}

const maxObjectSize = 32 << 20
