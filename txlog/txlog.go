// Package txlog implements the per-account, append-only transaction
// history: prepend, newest-first iteration, and 1-based indexed access for
// mini-statements. A contiguous growable slice backs it since nothing here
// needs list-node identity; prepend copies the existing entries, so its
// cost grows with the log's length.
package txlog

import (
	"time"

	"cashlink/idgen"
	"cashlink/types"
)

// Entry is one committed transaction.
type Entry struct {
	ID   uint64
	Amount float64 // signed: positive credit, negative debit
	Type  types.TxType
}

// DisplayTime reconstructs the dd/mm/yyyy hh:mm shown on a mini-statement
// reply from the entry's id.
func (e Entry) DisplayTime() string {
	day, month, year, hour, minute := idgen.SplitTransactionID(e.ID)
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC).
		Format("02/01/2006 15:04")
}

// Log is one account's ordered, newest-first transaction history.
type Log struct {
	entries []Entry // entries[0] is newest
}

// NewLog returns an empty log.
func NewLog() *Log { return &Log{} }

// Prepend appends a transaction to the front of the log (newest-first) and
// returns the committed Entry. The id is generated here so the log is the
// single point that mints transaction ids for its account.
func (l *Log) Prepend(accountID uint64, amount float64, typ types.TxType) Entry {
	e := Entry{ID: idgen.NewTransactionID(accountID), Amount: amount, Type: typ}
	l.entries = append([]Entry{e}, l.entries...)
	return e
}

// LoadEntry appends a pre-existing entry without minting a new id, used
// while replaying a persisted log in file order (persist.Load).
func (l *Log) LoadEntry(e Entry) {
	l.entries = append(l.entries, e)
}

// Len is the transaction count.
func (l *Log) Len() int { return len(l.entries) }

// At returns the entry at a 1-based mini-statement index, where index 1 is
// the newest entry. ok is false when index is out of [1, Len()].
func (l *Log) At(index int) (Entry, bool) {
	if index < 1 || index > len(l.entries) {
		return Entry{}, false
	}
	return l.entries[index-1], true
}

// All returns the full newest-first slice. Callers must not mutate it.
func (l *Log) All() []Entry { return l.entries }
