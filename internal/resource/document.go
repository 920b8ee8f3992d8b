package resource

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
)

// Indent is the serialization indent for written documents.
const Indent = "  "

// Document is one namespace file held in memory for a session.
type Document struct {
	Path      string
	Namespace string
	data      []byte
}

// ParseDocument validates data as a JSON object.
func ParseDocument(path, namespace string, data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, path)
	}
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if typ != jsonparser.Object {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, path)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Document{Path: path, Namespace: namespace, data: buf}, nil
}

func (d *Document) Resolve(path KeyPath) (Value, error) {
	return Resolve(d.data, path)
}

// Set replaces the leaf at path with value. The path must already
// resolve; nothing is created.
func (d *Document) Set(path KeyPath, value string) error {
	if _, err := d.Resolve(path); err != nil {
		return err
	}
	encoded, err := encodeString(value)
	if err != nil {
		return err
	}
	next, err := jsonparser.Set(d.data, encoded, path...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	d.data = next
	return nil
}

// Snapshot returns the current in-memory bytes for Restore.
func (d *Document) Snapshot() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

func (d *Document) Restore(snapshot []byte) {
	d.data = snapshot
}

// Bytes serializes the document with fixed two-space indentation and a
// trailing newline. Key order and string escapes are kept as read.
func (d *Document) Bytes() ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, d.data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", Indent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
