package resource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

var (
	ErrEmptyKey       = errors.New("resource: empty key")
	ErrEmptySegment   = errors.New("resource: empty key segment")
	ErrMissingSegment = errors.New("resource: missing path segment")
	ErrNotLeaf        = errors.New("resource: key resolves to an object")
	ErrNotObject      = errors.New("resource: document root is not an object")
	ErrMalformed      = errors.New("resource: malformed JSON")
)

// KeyPath is a parsed dot-separated key such as "common.logout".
type KeyPath []string

func ParseKeyPath(key string) (KeyPath, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	parts := strings.Split(key, ".")
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w at position %d in %q", ErrEmptySegment, i, key)
		}
	}
	return KeyPath(parts), nil
}

func (p KeyPath) String() string {
	return strings.Join(p, ".")
}

// PathError reports the segment where traversal stopped.
type PathError struct {
	Path    KeyPath
	Segment int
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment < 0 || e.Segment >= len(e.Path) {
		return fmt.Sprintf("%v: %s", e.Err, e.Path)
	}
	return fmt.Sprintf("%v: %q in %s", e.Err, e.Path[e.Segment], e.Path)
}

func (e *PathError) Unwrap() error { return e.Err }

// Value is a resolved leaf.
type Value struct {
	raw  []byte
	Type jsonparser.ValueType
}

// Text returns the leaf as a string. Strings are unescaped; any other
// leaf is returned as its JSON text.
func (v Value) Text() (string, error) {
	if v.Type == jsonparser.String {
		return jsonparser.ParseString(v.raw)
	}
	return string(v.raw), nil
}

// Resolve walks path through data. Every intermediate segment must exist
// and be an object; the final segment must not be an object. The same
// walk backs both lookups and Document.Set.
func Resolve(data []byte, path KeyPath) (Value, error) {
	if len(path) == 0 {
		return Value{}, ErrEmptyKey
	}
	cur, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, seg := range path {
		if typ != jsonparser.Object {
			return Value{}, &PathError{Path: path, Segment: i - 1, Err: ErrMissingSegment}
		}
		cur, typ, _, err = jsonparser.Get(cur, seg)
		if err != nil {
			if errors.Is(err, jsonparser.KeyPathNotFoundError) {
				return Value{}, &PathError{Path: path, Segment: i, Err: ErrMissingSegment}
			}
			return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if typ == jsonparser.Object {
		return Value{}, &PathError{Path: path, Segment: len(path) - 1, Err: ErrNotLeaf}
	}
	return Value{raw: cur, Type: typ}, nil
}
