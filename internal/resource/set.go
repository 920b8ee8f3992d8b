package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExt is the namespace file extension.
const FileExt = ".json"

var (
	ErrInvalidName = errors.New("resource: invalid name")
	ErrRootMissing = errors.New("resource: locales root not found")
	ErrLangMissing = errors.New("resource: language directory not found")
)

// Set is the ordered namespace list for one (root, lang) pair. Order is
// search priority.
type Set struct {
	Root       string
	Lang       string
	Namespaces []string
}

// OpenSet validates names and checks that root and root/lang exist.
// Namespace files themselves may be missing.
func OpenSet(root, lang string, namespaces []string) (Set, error) {
	root, err := filepath.Abs(strings.TrimSpace(root))
	if err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrRootMissing, err)
	}
	lang = strings.TrimSpace(lang)
	if err := ValidName(lang); err != nil {
		return Set{}, fmt.Errorf("lang: %w", err)
	}
	for _, ns := range namespaces {
		if err := ValidName(ns); err != nil {
			return Set{}, fmt.Errorf("namespace: %w", err)
		}
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return Set{}, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}
	dir := filepath.Join(root, lang)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return Set{}, fmt.Errorf("%w: %s", ErrLangMissing, dir)
	}
	return Set{Root: root, Lang: lang, Namespaces: append([]string(nil), namespaces...)}, nil
}

func (s Set) Dir() string {
	return filepath.Join(s.Root, s.Lang)
}

// File returns root/lang/<ns>.json.
func (s Set) File(ns string) string {
	return filepath.Join(s.Dir(), ns+FileExt)
}

// ValidName rejects names that could leave their parent directory.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
