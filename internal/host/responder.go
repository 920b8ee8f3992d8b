package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/danmuck/clicktrans/internal/protocol"
	"github.com/danmuck/clicktrans/internal/protocol/frame"
)

var ErrAlreadySent = errors.New("host: response already sent")

// Responder writes the single response frame of a process. Send and Hold
// share a lock, so a signal never interrupts a frame mid-write.
type Responder struct {
	mu     sync.Mutex
	out    io.Writer
	limits frame.Limits
	sent   bool
}

func NewResponder(out io.Writer, limits frame.Limits) *Responder {
	return &Responder{out: out, limits: limits}
}

// Send encodes and writes resp, then flushes the output. A second call
// returns ErrAlreadySent without writing.
func (r *Responder) Send(resp protocol.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent {
		return ErrAlreadySent
	}
	r.sent = true

	payload, err := protocol.EncodeResponse(resp)
	if err != nil {
		payload, err = protocol.EncodeResponse(protocol.Failed(fmt.Errorf("internal error: encode response: %v", err)))
		if err != nil {
			return err
		}
	}
	err = frame.WriteFrame(r.out, payload, r.limits)
	if errors.Is(err, frame.ErrPayloadTooLarge) {
		small, encErr := protocol.EncodeResponse(protocol.Failed(
			fmt.Errorf("response too large: %d bytes, %d files updated", len(payload), len(resp.UpdatedFiles))))
		if encErr != nil {
			return encErr
		}
		err = frame.WriteFrame(r.out, small, r.limits)
	}
	if err != nil {
		return err
	}
	return flush(r.out)
}

// Hold waits for an in-flight Send to finish and blocks any later one.
// The caller is expected to exit the process afterwards.
func (r *Responder) Hold() {
	r.mu.Lock()
	r.sent = true
}

func (r *Responder) Sent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	// Pipes and terminals reject fsync; only regular files need it.
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err == nil && fi.Mode().IsRegular() {
			return f.Sync()
		}
	}
	return nil
}
