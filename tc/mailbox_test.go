package tc

import (
	"testing"
	"time"
)

func TestMailbox_FeedThenDrain(t *testing.T) {
	mb := NewMailbox(64)
	n := mb.Feed([]byte("hello"))
	if n != 5 {
		t.Fatalf("Feed returned %d, want 5", n)
	}
	if got := mb.Available(); got != 5 {
		t.Fatalf("Available() = %d, want 5", got)
	}
	buf := make([]byte, 16)
	got := mb.Drain(buf)
	if string(buf[:got]) != "hello" {
		t.Fatalf("Drain() = %q, want %q", buf[:got], "hello")
	}
}

func TestMailbox_ReadySignalsOnFeed(t *testing.T) {
	mb := NewMailbox(64)
	select {
	case <-mb.Ready():
		t.Fatalf("Ready() fired before any Feed")
	default:
	}
	mb.Feed([]byte("x"))
	select {
	case <-mb.Ready():
	case <-time.After(time.Second):
		t.Fatalf("Ready() did not fire after Feed")
	}
}
