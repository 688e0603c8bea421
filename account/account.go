// Package account implements the account data model and in-memory
// store: an Account record with validated fields, and a Store providing
// RFID-keyed lookup in the dispatcher's hot path plus linear-scan
// lookups by username and account id for the operator surface.
package account

import (
	"fmt"
	"strings"
	"unicode"

	"cashlink/txlog"
	"cashlink/types"
	"cashlink/x/mathx"
)

// AdminUsername is the reserved operator username that no account may use.
const AdminUsername = "admin"

// Account is the canonical per-cardholder record.
type Account struct {
	ID     uint64
	HolderName string
	Phone   uint64 // 10-digit decimal, [6_000_000_000, 9_999_999_999]
	Username  string
	Password  string
	RFID    string // exactly 8 characters
	PIN    string // exactly 4 decimal digits
	CardState types.CardState
	Balance  float64
	History  *txlog.Log
}

// TransactionCount is the account's lifetime entry count.
func (a *Account) TransactionCount() int { return a.History.Len() }

// TitleCase upper-cases the first letter of each whitespace-separated
// word, the normalization applied to holder_name on ingest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Validate checks the field-level invariants that do not require
// comparison against other accounts (uniqueness is the Store's job, at
// creation time).
func Validate(holderName string, phone uint64, username, password, rfid, pin string) error {
	if len(strings.Fields(holderName)) == 0 || len([]rune(strings.Join(strings.Fields(holderName), ""))) < 3 {
		return fmt.Errorf("account: holder_name must be at least 3 printable characters")
	}
	if !mathx.Between(phone, 6_000_000_000, 9_999_999_999) {
		return fmt.Errorf("account: phone must be a 10-digit number in range")
	}
	if len(username) == 0 || len(username) > 20 {
		return fmt.Errorf("account: username must be 1-20 characters")
	}
	if strings.EqualFold(username, AdminUsername) {
		return fmt.Errorf("account: username %q is reserved", username)
	}
	if len(password) == 0 || len(password) > 20 {
		return fmt.Errorf("account: password must be 1-20 characters")
	}
	if len(rfid) != 8 {
		return fmt.Errorf("account: rfid must be exactly 8 characters")
	}
	if len(pin) != 4 || !isAllDigits(pin) {
		return fmt.Errorf("account: pin must be exactly 4 decimal digits")
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
