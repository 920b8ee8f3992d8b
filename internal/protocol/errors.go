package protocol

import "errors"

var (
	ErrParse        = errors.New("parse error")
	ErrInvalidUTF8  = errors.New("protocol: payload is not valid UTF-8")
	ErrMissingRoot  = errors.New("protocol: missing root")
	ErrMissingLang  = errors.New("protocol: missing lang")
	ErrEmptyPayload = errors.New("protocol: empty payload")
	ErrMissingKey   = errors.New("missing key")
	ErrMissingOld   = errors.New("missing old value")
)
