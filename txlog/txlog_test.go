package txlog

import (
	"testing"
	"time"

	"cashlink/idgen"
	"cashlink/types"
)

func withClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := idgen.Clock
	idgen.Clock = func() time.Time { return at }
	t.Cleanup(func() { idgen.Clock = prev })
}

func TestPrepend_NewestFirst(t *testing.T) {
	withClock(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	l := NewLog()
	l.Prepend(1, 100, types.Deposit)
	l.Prepend(1, -50, types.Withdraw)

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[0].Type != types.Withdraw || all[1].Type != types.Deposit {
		t.Fatalf("entries not newest-first: %+v", all)
	}
}

func TestAt_OneBasedAndOutOfRange(t *testing.T) {
	l := NewLog()
	if _, ok := l.At(1); ok {
		t.Fatalf("At(1) on empty log should miss")
	}
	l.Prepend(1, 10, types.Deposit)
	e, ok := l.At(1)
	if !ok || e.Amount != 10 {
		t.Fatalf("At(1) = %+v, %v, want the just-inserted entry", e, ok)
	}
	if _, ok := l.At(0); ok {
		t.Fatalf("At(0) should miss, index is 1-based")
	}
	if _, ok := l.At(2); ok {
		t.Fatalf("At(2) should miss, log only has one entry")
	}
}

func TestDisplayTime_Format(t *testing.T) {
	withClock(t, time.Date(2026, time.March, 5, 9, 4, 0, 0, time.UTC))
	l := NewLog()
	e := l.Prepend(1, 10, types.Deposit)
	got := e.DisplayTime()
	want := "05/03/2026 09:04"
	if got != want {
		t.Fatalf("DisplayTime() = %q, want %q", got, want)
	}
}

func TestLoadEntry_PreservesFileOrder(t *testing.T) {
	l := NewLog()
	l.LoadEntry(Entry{ID: 1, Amount: 10, Type: types.Deposit})
	l.LoadEntry(Entry{ID: 2, Amount: -5, Type: types.Withdraw})
	all := l.All()
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("LoadEntry should append in call order, got %+v", all)
	}
}
