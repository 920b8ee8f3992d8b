package host

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/danmuck/clicktrans/internal/protocol"
	"github.com/danmuck/clicktrans/internal/protocol/frame"
)

// Applier processes one decoded request.
type Applier interface {
	Apply(req protocol.Request) protocol.Response
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(req protocol.Request) protocol.Response

func (f ApplierFunc) Apply(req protocol.Request) protocol.Response {
	return f(req)
}

// Failing returns an Applier that answers every request with err. The
// host still reads the frame so the caller gets a framed reply.
func Failing(err error) Applier {
	return ApplierFunc(func(protocol.Request) protocol.Response {
		return protocol.Failed(err)
	})
}

// Host runs one request/response exchange.
type Host struct {
	in        io.Reader
	limits    frame.Limits
	applier   Applier
	log       zerolog.Logger
	responder *Responder
}

func New(in io.Reader, out io.Writer, limits frame.Limits, applier Applier, log zerolog.Logger) *Host {
	return &Host{
		in:        in,
		limits:    limits,
		applier:   applier,
		log:       log,
		responder: NewResponder(out, limits),
	}
}

func (h *Host) Responder() *Responder {
	return h.responder
}

// Run reads exactly one frame, applies it and writes exactly one
// response. Every failure, including a panic, becomes a failure response.
func (h *Host) Run() (protocol.Response, error) {
	resp := h.handle()
	if err := h.responder.Send(resp); err != nil {
		h.log.Error().Err(err).Msg("response not delivered")
		return resp, err
	}
	h.log.Debug().Bool("success", resp.Success).Msg("response sent")
	return resp, nil
}

func (h *Host) handle() (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("request aborted")
			resp = protocol.Failed(fmt.Errorf("internal error: %v", r))
		}
	}()

	payload, err := frame.ReadFrame(h.in, h.limits)
	if err != nil {
		h.log.Warn().Err(err).Msg("frame rejected")
		return protocol.Failed(fmt.Errorf("protocol error: %w", err))
	}
	h.log.Debug().Int("bytes", len(payload)).Msg("frame received")

	req, err := protocol.DecodeRequest(payload)
	if err != nil {
		h.log.Warn().Err(err).Msg("request undecodable")
		return protocol.Failed(err)
	}
	return h.applier.Apply(req)
}
