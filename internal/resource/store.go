package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrOutsideRoot = errors.New("resource: path escapes root")

// Store is the file access boundary used by the engine. It performs no
// locking; concurrent writers to the same file can lose updates.
type Store interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile overwrites path in full.
	WriteFile(path string, data []byte) error
	// CreateExclusive writes a new file and fails with fs.ErrExist if
	// path is already present.
	CreateExclusive(path string, data []byte) error
}

// DirStore is an os-backed Store scoped to one locales root.
type DirStore struct {
	root string
}

func NewDirStore(root string) DirStore {
	return DirStore{root: filepath.Clean(strings.TrimSpace(root))}
}

func (s DirStore) ReadFile(path string) ([]byte, error) {
	p, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s DirStore) WriteFile(path string, data []byte) error {
	p, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(p); err == nil {
		mode = fi.Mode().Perm()
	}
	return os.WriteFile(p, data, mode)
}

func (s DirStore) CreateExclusive(path string, data []byte) error {
	p, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s DirStore) resolvePath(pathArg string) (string, error) {
	raw := strings.TrimSpace(pathArg)
	if raw == "" {
		return "", fmt.Errorf("resource: missing path")
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	p := raw
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)
	if !isWithin(p, root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, pathArg)
	}
	return p, nil
}

func isWithin(path string, root string) bool {
	p := filepath.Clean(path)
	r := filepath.Clean(root)
	if p == r {
		return true
	}
	return strings.HasPrefix(p, r+string(os.PathSeparator))
}
