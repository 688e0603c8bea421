package tc

import (
	"cashlink/x/shmring"
)

// Mailbox is a single-producer/single-consumer, fixed-size byte buffer
// plus completion-flag, built on an SPSC ring. The producer is the
// interrupt-equivalent receive path (RXFeeder); the consumer is the
// session engine's main loop. The interrupt path only appends bytes; the
// ring signals readiness when it goes from empty to non-empty, not per
// frame. It never touches business state.
type Mailbox struct {
	ring *shmring.Ring
}

// NewMailbox allocates a mailbox with the given power-of-two byte
// capacity.
func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{ring: shmring.New(capacity)}
}

// Feed is called from the interrupt-equivalent receive path for every
// byte (or burst of bytes) read off the wire. It is the only mutation
// permitted from that context.
func (m *Mailbox) Feed(b []byte) int {
	return m.ring.TryWriteFrom(b)
}

// Ready returns the channel that fires once when the mailbox transitions
// from empty to non-empty. The main loop selects on it, then drains with
// Drain; always re-check after waking, per the ring's documented
// edge-coalescing semantics.
func (m *Mailbox) Ready() <-chan struct{} { return m.ring.Readable() }

// Drain copies everything currently buffered into dst, returning the
// number of bytes copied.
func (m *Mailbox) Drain(dst []byte) int {
	return m.ring.TryReadInto(dst)
}

// Available reports how many bytes are waiting without consuming them.
func (m *Mailbox) Available() int { return m.ring.Available() }
