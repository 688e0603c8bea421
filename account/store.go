package account

import (
	"fmt"

	"golang.org/x/exp/slices"

	"cashlink/idgen"
	"cashlink/types"
)

// ErrNotFound is returned by lookups that find nothing; the dispatcher
// replies @ERR:INVALID$ to it.
var ErrNotFound = fmt.Errorf("account: not found")

// Store is the in-memory account set. It has no internal locking of its
// own; callers that drive it from more than one goroutine (the dispatcher
// and the operator console) serialize access with a shared mutex.
type Store struct {
	byRFID map[string]*Account
	order []*Account // creation order, for list/search and deterministic persistence
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byRFID: make(map[string]*Account)}
}

// LookupByRFID is the hot-path lookup used by the dispatcher.
func (s *Store) LookupByRFID(rfid string) (*Account, error) {
	a, ok := s.byRFID[rfid]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// LookupByUsername performs a linear scan, acceptable at the fleet
// sizes this store is built for.
func (s *Store) LookupByUsername(username string) (*Account, error) {
	i := slices.IndexFunc(s.order, func(a *Account) bool { return a.Username == username })
	if i < 0 {
		return nil, ErrNotFound
	}
	return s.order[i], nil
}

// LookupByID performs a linear scan, acceptable at the fleet sizes this
// store is built for.
func (s *Store) LookupByID(id uint64) (*Account, error) {
	i := slices.IndexFunc(s.order, func(a *Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return s.order[i], nil
}

// SearchByPhone returns every account with the given phone number (rare
// but not guaranteed unique, unlike rfid/username/account_id).
func (s *Store) SearchByPhone(phone uint64) []*Account {
	var out []*Account
	for _, a := range s.order {
		if a.Phone == phone {
			out = append(out, a)
		}
	}
	return out
}

// SearchByName returns every account whose holder name equals name,
// case-insensitively.
func (s *Store) SearchByName(name string) []*Account {
	var out []*Account
	for _, a := range s.order {
		if equalFold(a.HolderName, name) {
			out = append(out, a)
		}
	}
	return out
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// All returns every account in creation order. Callers must not mutate
// the slice.
func (s *Store) All() []*Account { return s.order }

// Create validates uniqueness, assigns an id (regenerating on collision),
// and inserts the account. History must already be attached to a.
func (s *Store) Create(a *Account) error {
	if _, err := s.LookupByUsername(a.Username); err == nil {
		return fmt.Errorf("account: username %q already in use", a.Username)
	}
	if _, ok := s.byRFID[a.RFID]; ok {
		return fmt.Errorf("account: rfid %q already in use", a.RFID)
	}
	for {
		id := idgen.NewAccountID()
		if _, err := s.LookupByID(id); err != nil {
			a.ID = id
			break
		}
	}
	s.byRFID[a.RFID] = a
	s.order = append(s.order, a)
	return nil
}

// Insert adds an already-complete account (with a known id) without
// generating a new id or checking username/rfid collisions beyond a hard
// rfid-index conflict; used while replaying persisted state at startup,
// where ids and uniqueness were already enforced when the record was
// first created.
func (s *Store) Insert(a *Account) error {
	if _, ok := s.byRFID[a.RFID]; ok {
		return fmt.Errorf("account: duplicate rfid %q on load", a.RFID)
	}
	s.byRFID[a.RFID] = a
	s.order = append(s.order, a)
	return nil
}

// SetCardState flips an account's card state (operator action, or the AS
// on PIN-retry exhaustion).
func (s *Store) SetCardState(a *Account, state types.CardState) {
	a.CardState = state
}
