// Package idgen generates the two identifier forms used by the account
// store: account ids and per-account transaction ids. Both embed a
// 14-digit timestamp so ids sort roughly chronologically, with a random
// suffix for intra-second distinctness, drawn from a dedicated,
// timestamp-seeded generator rather than anything tied to process or
// memory state.
package idgen

import (
	"math/rand"
	"sync"
	"time"
)

// Clock is overridable for tests; defaults to time.Now.
var Clock = time.Now

func timestamp14(t time.Time) uint64 {
	return uint64(t.Year())*10000000000 +
		uint64(t.Month())*100000000 +
		uint64(t.Day())*1000000 +
		uint64(t.Hour())*10000 +
		uint64(t.Minute())*100 +
		uint64(t.Second())
}

// processRand is the process-scoped generator backing account id
// generation; account ids have no natural per-entity seed (the account
// doesn't exist yet), so they draw from one shared source.
var processRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// NewAccountID returns timestamp14*10_000 + rand4. Callers must regenerate
// on collision against existing ids (uniqueness is enforced by the
// account store, not here).
func NewAccountID() uint64 {
	return timestamp14(Clock())*10_000 + uint64(processRand.Intn(10_000))
}

// txnRands holds one generator per account, seeded from the account id on
// the account's first transaction id in this process.
var (
	txnMu    sync.Mutex
	txnRands = map[uint64]*rand.Rand{}
)

// NewTransactionID returns timestamp14*1_000 + rand3, drawn from a
// generator seeded by the owning account id so that the suffix sequence is
// stable per-account across runs with the same account id. The same-second
// collision probability within one account is 1/1000.
func NewTransactionID(accountID uint64) uint64 {
	txnMu.Lock()
	defer txnMu.Unlock()
	src, ok := txnRands[accountID]
	if !ok {
		src = rand.New(rand.NewSource(int64(accountID)))
		txnRands[accountID] = src
	}
	return timestamp14(Clock())*1_000 + uint64(src.Intn(1_000))
}

// SplitTransactionID decomposes a transaction id's timestamp portion into
// display fields (day, month, year, hour, minute): divide out the
// random-suffix width, then extract positional fields by repeated
// modulo-100. Seconds are intentionally not returned; they are encoded in
// the id but never displayed.
func SplitTransactionID(id uint64) (day, month, year, hour, minute int) {
	ts := id / 1_000
	second := ts % 100
	_ = second
	ts /= 100
	minute = int(ts % 100)
	ts /= 100
	hour = int(ts % 100)
	ts /= 100
	day = int(ts % 100)
	ts /= 100
	month = int(ts % 100)
	ts /= 100
	year = int(ts)
	return
}
