package tc

import (
	"context"
	"io"
	"time"
)

// RXFeeder owns the interrupt-equivalent receive path: it pulls bytes off
// a raw transport and pushes them into a Mailbox, one read call at a
// time. Real interrupt-driven hardware would call Mailbox.Feed directly
// from an ISR; on a host build this goroutine stands in for that ISR,
// kept deliberately dumb (append bytes, nothing else) to preserve the
// property that the receive path never touches business state.
type RXFeeder struct {
	src io.Reader
	mb *Mailbox
}

// NewRXFeeder wires a raw byte source into a mailbox.
func NewRXFeeder(src io.Reader, mb *Mailbox) *RXFeeder {
	return &RXFeeder{src: src, mb: mb}
}

// Run reads from src until ctx is cancelled or the source errs, feeding
// every chunk into the mailbox.
func (f *RXFeeder) Run(ctx context.Context) error {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := f.src.Read(buf)
		if n > 0 {
			f.mb.Feed(buf[:n])
		}
		if err != nil {
			return err
		}
	}
}

// mailboxReader adapts a Mailbox to io.Reader so the link frame decoder
// can read from it like any other stream; it blocks on the mailbox's
// readiness edge rather than spinning.
type mailboxReader struct {
	mb *Mailbox
}

func newMailboxReader(mb *Mailbox) *mailboxReader { return &mailboxReader{mb: mb} }

// NewMailboxReader adapts a Mailbox to io.Reader for callers outside this
// package, chiefly link.NewReader at wiring time.
func NewMailboxReader(mb *Mailbox) io.Reader { return newMailboxReader(mb) }

func (r *mailboxReader) Read(p []byte) (int, error) {
	for {
		if n := r.mb.Drain(p); n > 0 {
			return n, nil
		}
		select {
		case <-r.mb.Ready():
		case <-time.After(50 * time.Millisecond):
		}
	}
}
