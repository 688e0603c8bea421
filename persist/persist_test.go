package persist

import (
	"os"
	"strings"
	"testing"

	"cashlink/account"
	"cashlink/txlog"
	"cashlink/types"
)

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Base: dir}

	store := account.NewStore()
	a := &account.Account{
		HolderName: "John Doe",
		Phone:      6_500_000_000,
		Username:   "john",
		Password:   "pw",
		RFID:       "RFID0001",
		PIN:        "1234",
		CardState:  types.Active,
		Balance:    150.50,
		History:    txlog.NewLog(),
	}
	a.ID = 42
	a.History.Prepend(1, 200, types.Deposit)
	a.History.Prepend(1, -49.50, types.Withdraw)
	if err := store.Insert(a); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := Save(paths, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := account.NewStore()
	if err := Load(paths, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := loaded.LookupByID(42)
	if err != nil {
		t.Fatalf("LookupByID(42): %v", err)
	}
	if got.HolderName != a.HolderName || got.RFID != a.RFID || got.Balance != a.Balance {
		t.Fatalf("round-tripped account mismatch: got %+v, want %+v", got, a)
	}
	if got.TransactionCount() != 2 {
		t.Fatalf("round-tripped transaction count = %d, want 2", got.TransactionCount())
	}
}

func TestLoad_MissingDataDirIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Base: dir}
	store := account.NewStore()
	if err := Load(paths, store); err != nil {
		t.Fatalf("Load on a fresh directory: %v", err)
	}
	if len(store.All()) != 0 {
		t.Fatalf("expected an empty store, got %d accounts", len(store.All()))
	}
}

func TestLoad_MissingTransactionFileIsEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Base: dir}
	store := account.NewStore()
	a := &account.Account{
		ID:         1,
		HolderName: "John Doe",
		Phone:      6_500_000_000,
		Username:   "john",
		Password:   "pw",
		RFID:       "RFID0001",
		PIN:        "1234",
		CardState:  types.Active,
		Balance:    10,
		History:    txlog.NewLog(),
	}
	if err := store.Insert(a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := savePrimary(paths, store); err != nil {
		t.Fatalf("savePrimary: %v", err)
	}

	loaded := account.NewStore()
	if err := Load(paths, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := loaded.LookupByID(1)
	if err != nil {
		t.Fatalf("LookupByID(1): %v", err)
	}
	if got.TransactionCount() != 0 {
		t.Fatalf("expected empty history, got %d entries", got.TransactionCount())
	}
}

func TestWriteReport_IncludesHeaderAndDisplayTypes(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Base: dir}
	store := account.NewStore()
	a := &account.Account{
		ID:         1,
		HolderName: "Jane Doe",
		Phone:      6_500_000_001,
		Username:   "jane",
		Password:   "pw",
		RFID:       "RFID0002",
		PIN:        "4321",
		CardState:  types.Blocked,
		Balance:    0,
		History:    txlog.NewLog(),
	}
	if err := store.Insert(a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := WriteReport(paths, store); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if _, err := store.LookupByID(1); err != nil {
		t.Fatalf("LookupByID(1): %v", err)
	}
	b, err := os.ReadFile(paths.reportDB())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	report := string(b)
	if !strings.HasPrefix(report, strings.Join(reportHeader, ",")+"\n") {
		t.Fatalf("report does not start with the header row: %q", report)
	}
	if !strings.Contains(report, ",BLOCKED,") {
		t.Fatalf("report card_state is not in display form: %q", report)
	}
}
