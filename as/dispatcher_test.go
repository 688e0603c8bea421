package as

import (
	"io"
	"net"
	"sync"
	"testing"

	"cashlink/account"
	"cashlink/link"
	"cashlink/protocol"
	"cashlink/txlog"
	"cashlink/types"
)

func testLogger() *Logger {
	return NewLogger(LogConfig{Level: "error", Output: io.Discard})
}

func seedAccount(store *account.Store) *account.Account {
	a := &account.Account{
		HolderName: "John Doe",
		Phone:      6_500_000_000,
		Username:   "john",
		Password:   "pw",
		RFID:       "ABCD1234",
		PIN:        "1234",
		CardState:  types.Active,
		Balance:    1000,
		History:    txlog.NewLog(),
	}
	if err := store.Insert(a); err != nil {
		panic(err)
	}
	return a
}

// serveOnPipe starts a Dispatcher against one end of a net.Pipe and returns
// the other end wrapped as a link.Reader/Writer pair for the test to drive.
func serveOnPipe(t *testing.T, d *Dispatcher) (*link.Reader, *link.Writer, func()) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	go d.Serve(link.NewReader(serverConn), link.NewWriter(serverConn))
	return link.NewReader(clientConn), link.NewWriter(clientConn), func() {
		serverConn.Close()
		clientConn.Close()
	}
}

func TestDispatcher_CardCheck(t *testing.T) {
	store := account.NewStore()
	seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	if err := wr.WriteFrame(protocol.CardCheckRequest("ABCD1234")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	resp, err := rd.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if resp.Head != protocol.TagOK || resp.Body != "ACTIVE:john" {
		t.Fatalf("CardCheck response = %+v", resp)
	}
}

func TestDispatcher_CardCheck_UnknownRFID(t *testing.T) {
	store := account.NewStore()
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.CardCheckRequest("NOPE0000"))
	resp, err := rd.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if resp.Head != protocol.TagErr || resp.Body != "INVALID" {
		t.Fatalf("CardCheck response for unknown rfid = %+v", resp)
	}
}

func TestDispatcher_CardCheck_Blocked(t *testing.T) {
	store := account.NewStore()
	a := seedAccount(store)
	store.SetCardState(a, types.Blocked)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.CardCheckRequest("ABCD1234"))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagErr || resp.Body != "BLOCK" {
		t.Fatalf("CardCheck response for blocked card = %+v", resp)
	}
}

func TestDispatcher_PinVerify_Wrong(t *testing.T) {
	store := account.NewStore()
	seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.PinVerifyRequest("ABCD1234", "0000"))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagErr || resp.Body != "WRONG" {
		t.Fatalf("PinVerify with wrong pin = %+v", resp)
	}
}

func TestDispatcher_Withdraw_HappyPath(t *testing.T) {
	store := account.NewStore()
	a := seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MonetaryRequest(protocol.SubWithdraw, "ABCD1234", 200))
	resp, err := rd.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if resp.Head != protocol.TagOK {
		t.Fatalf("Withdraw response = %+v", resp)
	}
	if a.Balance != 800 {
		t.Fatalf("balance after withdraw = %v, want 800", a.Balance)
	}
}

func TestDispatcher_Withdraw_InsufficientBalance(t *testing.T) {
	store := account.NewStore()
	seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MonetaryRequest(protocol.SubWithdraw, "ABCD1234", 5000))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagErr || resp.Body != "LOWBAL" {
		t.Fatalf("over-balance withdraw response = %+v", resp)
	}
}

func TestDispatcher_Withdraw_AtOrAboveCeilingRejected(t *testing.T) {
	store := account.NewStore()
	a := seedAccount(store)
	a.Balance = 1_000_000
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MonetaryRequest(protocol.SubWithdraw, "ABCD1234", 30_000))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagErr || resp.Body != "MAXAMT" {
		t.Fatalf("at-ceiling withdraw response = %+v", resp)
	}
}

func TestDispatcher_Withdraw_NonPositiveAmountRejected(t *testing.T) {
	store := account.NewStore()
	seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MonetaryRequest(protocol.SubWithdraw, "ABCD1234", 0))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagErr || resp.Body != "NEGAMT" {
		t.Fatalf("zero-amount withdraw response = %+v", resp)
	}
}

func TestDispatcher_MiniStatement_OutOfRangeSentinel(t *testing.T) {
	store := account.NewStore()
	seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MiniStatementRequest("ABCD1234", 1))
	resp, _ := rd.ReadFrame()
	if resp.Body != "7:0:0" {
		t.Fatalf("mini-statement past the end = %+v, want the 7:0:0 sentinel", resp)
	}
}

func TestDispatcher_MiniStatement_InRange(t *testing.T) {
	store := account.NewStore()
	a := seedAccount(store)
	a.History.Prepend(a.ID, 50, types.Deposit)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.MiniStatementRequest("ABCD1234", 1))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagTxn {
		t.Fatalf("in-range mini-statement response = %+v", resp)
	}
}

func TestDispatcher_Block(t *testing.T) {
	store := account.NewStore()
	a := seedAccount(store)
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	wr.WriteFrame(protocol.BlockRequest("ABCD1234"))
	resp, _ := rd.ReadFrame()
	if resp.Head != protocol.TagOK {
		t.Fatalf("Block response = %+v", resp)
	}
	if a.CardState != types.Blocked {
		t.Fatalf("account was not blocked")
	}
}

func TestDispatcher_UnrecognizedOpcodeGetsNoReply(t *testing.T) {
	store := account.NewStore()
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()
	go d.Serve(link.NewReader(serverConn), link.NewWriter(serverConn))

	wr := link.NewWriter(clientConn)
	rd := link.NewReader(clientConn)
	wr.WriteFrame(link.NewRequest("Z", "anything"))
	// Follow with a recognized request; if the unrecognized opcode had
	// produced a reply, it would arrive before this one and the assertion
	// on Head below would fail.
	wr.WriteFrame(protocol.CardCheckRequest("NOPE0000"))
	resp, err := rd.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if resp.Body != "INVALID" {
		t.Fatalf("expected only the second request's reply, got %+v", resp)
	}
}

func TestDispatcher_LineCheckBypassesHandlerTable(t *testing.T) {
	store := account.NewStore()
	d := NewDispatcher(store, DefaultConfig(), testLogger(), &sync.Mutex{})
	rd, wr, cleanup := serveOnPipe(t, d)
	defer cleanup()

	if err := link.CheckX(wr, rd, nil); err != nil {
		t.Fatalf("CheckX: %v", err)
	}
}
