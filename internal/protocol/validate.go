package protocol

import "strings"

// ValidateRequest checks request-level fields. A failure here aborts the
// whole call before any file is touched.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.Root) == "" {
		return ErrMissingRoot
	}
	if strings.TrimSpace(req.Lang) == "" {
		return ErrMissingLang
	}
	if len(req.Payload) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// ValidateEdit checks one edit. A failure is local to that edit.
func ValidateEdit(e Edit) error {
	if strings.TrimSpace(e.Key) == "" {
		return ErrMissingKey
	}
	if e.Old == "" {
		return ErrMissingOld
	}
	return nil
}
