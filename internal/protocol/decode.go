package protocol

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DecodeRequest parses one request payload. Any failure is wrapped in
// ErrParse so callers can answer with a parse-error response.
func DecodeRequest(payload []byte) (Request, error) {
	if !utf8.Valid(payload) {
		return Request{}, fmt.Errorf("%w: %v", ErrParse, ErrInvalidUTF8)
	}
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return req, nil
}
