package tc

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRXFeeder_FeedsBytesIntoMailbox(t *testing.T) {
	mb := NewMailbox(64)
	feeder := NewRXFeeder(strings.NewReader("#C:ABCD1234$\r\n"), mb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feeder.Run(ctx)

	select {
	case <-mb.Ready():
	case <-time.After(time.Second):
		t.Fatalf("mailbox never became ready")
	}
	buf := make([]byte, 64)
	n := mb.Drain(buf)
	if string(buf[:n]) != "#C:ABCD1234$\r\n" {
		t.Fatalf("drained %q, want the fed frame verbatim", buf[:n])
	}
}

func TestMailboxReader_BlocksUntilDataArrives(t *testing.T) {
	mb := NewMailbox(64)
	r := NewMailboxReader(mb)

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 8)
		n, err := r.Read(buf)
		if err != nil {
			readDone <- nil
			return
		}
		readDone <- buf[:n]
	}()

	select {
	case <-readDone:
		t.Fatalf("Read returned before any bytes were fed")
	case <-time.After(100 * time.Millisecond):
	}

	mb.Feed([]byte("hi"))
	select {
	case got := <-readDone:
		if string(got) != "hi" {
			t.Fatalf("Read() = %q, want %q", got, "hi")
		}
	case <-time.After(time.Second):
		t.Fatalf("Read did not return after a Feed")
	}
}
