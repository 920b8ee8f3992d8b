package protocol

import (
	"bytes"
	"encoding/json"
)

// EncodeResponse serializes resp without HTML escaping so translated
// text round-trips byte for byte. Nil slices are emitted as [].
func EncodeResponse(resp Response) ([]byte, error) {
	if resp.UpdatedFiles == nil {
		resp.UpdatedFiles = []string{}
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
