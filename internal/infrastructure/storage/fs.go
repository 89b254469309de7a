package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
)

// FSStore reads objects from a local directory.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(cleaned))
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, crerr.Wrapf(ErrObjectNotFound, "file %s", cleaned)
		}
		return nil, crerr.Wrapf(err, "stat %s", cleaned)
	}
	if info.IsDir() {
		return nil, crerr.Wrapf(ErrObjectNotFound, "%s is a directory", cleaned)
	}
	if info.Size() > maxObjectSize {
		return nil, crerr.Newf("file %s exceeds %d bytes", cleaned, maxObjectSize)
	}

	b, err := os.ReadFile(full)
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s", cleaned)
	}
	return b, nil
}

// Put writes an object below the root, creating directories as needed.
func (s *FSStore) Put(ctx context.Context, key, _ string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := cleanName(key)
	if err != nil {
		return err
	}
	full := filepath.Join(s.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return crerr.Wrapf(err, "create directory for %s", cleaned)
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return crerr.Wrapf(err, "write %s", cleaned)
	}
	return nil
}
