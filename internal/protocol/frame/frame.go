package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PrefixLen is the size of the little-endian length prefix.
const PrefixLen = 4

var (
	ErrShortPrefix      = errors.New("frame: short length prefix")
	ErrTruncatedPayload = errors.New("frame: truncated payload")
	ErrPayloadTooLarge  = errors.New("frame: payload too large")
)

// Limits constrains frame decode/encode memory use.
//
// Browsers accept at most 1 MiB from a host and send at most 64 MiB.
type Limits struct {
	MaxInboundBytes  uint32
	MaxOutboundBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxInboundBytes:  64 * 1024 * 1024,
		MaxOutboundBytes: 1024 * 1024,
	}
}

// ReadFrame reads exactly one length-prefixed payload from r.
// Partial reads are accumulated until the full frame is buffered.
func ReadFrame(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [PrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrShortPrefix
		}
		return nil, err
	}

	n := DecodePrefix(prefix[:])
	if limits.MaxInboundBytes > 0 && n > limits.MaxInboundBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, n, limits.MaxInboundBytes)
	}

	payload := make([]byte, n)
	if n > 0 {
		if got, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedPayload, got, n)
			}
			return nil, err
		}
	}
	return payload, nil
}

// WriteFrame writes prefix and payload in a single Write call so a
// reader never observes a prefix without its payload.
func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return ErrPayloadTooLarge
	}
	if limits.MaxOutboundBytes > 0 && uint32(len(payload)) > limits.MaxOutboundBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(payload), limits.MaxOutboundBytes)
	}

	buf := make([]byte, 0, PrefixLen+len(payload))
	buf = append(buf, EncodePrefix(uint32(len(payload)))...)
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}

// EncodePrefix returns the wire prefix for a payload of n bytes.
func EncodePrefix(n uint32) []byte {
	buf := make([]byte, PrefixLen)
	binary.LittleEndian.PutUint32(buf, n)
	return buf
}

func DecodePrefix(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b[:PrefixLen])
}
