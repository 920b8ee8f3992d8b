package host

import (
	"os"
	"os/signal"
	"syscall"
)

// ExitOnSignal exits with status 0 on SIGINT or SIGTERM once no frame is
// being written. The returned func stops watching.
func ExitOnSignal(r *Responder, exit func(code int)) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go waitSignal(ch, done, r, exit)
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func waitSignal(ch <-chan os.Signal, done <-chan struct{}, r *Responder, exit func(code int)) {
	select {
	case <-ch:
		r.Hold()
		exit(0)
	case <-done:
	}
}
