package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is the decoded inbound message.
type Request struct {
	Root    string `json:"root"`
	Lang    string `json:"lang"`
	Force   bool   `json:"force"`
	Payload Edits  `json:"payload"`
}

// Edit is one requested change. NS is a caller hint; it is logged but
// never used to select a file.
type Edit struct {
	Key string `json:"key"`
	NS  string `json:"ns,omitempty"`
	Old string `json:"old"`
	New string `json:"new"`
}

// Edits accepts either a JSON array of edits or a single edit object.
type Edits []Edit

func (e *Edits) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*e = nil
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []Edit
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*e = list
		return nil
	case '{':
		var one Edit
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*e = Edits{one}
		return nil
	default:
		return fmt.Errorf("payload must be an object or an array of objects")
	}
}

// FailureReason classifies one failed edit.
type FailureReason string

const (
	ReasonValidation FailureReason = "validation"
	ReasonNotFound   FailureReason = "not_found"
	ReasonMismatch   FailureReason = "mismatch"
	ReasonIO         FailureReason = "io"
)

// Failure is the structured form of one entry in Response.Errors.
type Failure struct {
	Index     int           `json:"index"`
	Key       string        `json:"key"`
	Namespace string        `json:"namespace,omitempty"`
	Reason    FailureReason `json:"reason"`
	Message   string        `json:"message"`
}

// Response is the outbound message.
type Response struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	UpdatedFiles []string  `json:"updatedFiles"`
	Errors       []string  `json:"errors"`
	Error        string    `json:"error,omitempty"`
	Skipped      []string  `json:"skipped,omitempty"`
	Backups      []string  `json:"backups,omitempty"`
	Failures     []Failure `json:"failures,omitempty"`
}

// Failed builds the response for a request that could not be processed
// at all (protocol, parse, request validation or internal failure).
func Failed(err error) Response {
	msg := err.Error()
	return Response{
		Success:      false,
		Message:      msg,
		UpdatedFiles: []string{},
		Errors:       []string{msg},
		Error:        msg,
	}
}
