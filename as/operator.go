package as

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/google/shlex"

	"cashlink/account"
	"cashlink/persist"
	"cashlink/txlog"
	"cashlink/types"
)

// Operator is the interactive administrator console. It shares the
// in-memory store with the Dispatcher and must not mutate it concurrently
// with it; Mu is the same mutex the Dispatcher takes per frame, so the two
// serialize against each other even when driven from separate goroutines.
type Operator struct {
	Store *account.Store
	Paths persist.Paths
	Config Config
	Log  *Logger
	Mu  *sync.Mutex
}

// NewOperator builds an Operator over the same store, config, and mutex as
// a Dispatcher.
func NewOperator(store *account.Store, cfg Config, logger *Logger, mu *sync.Mutex) *Operator {
	return &Operator{Store: store, Paths: persist.Paths{Base: cfg.DataDir}, Config: cfg, Log: logger, Mu: mu}
}

// ErrExit is returned by Authenticate when the reserved exit password
// was entered, signalling the caller to terminate immediately without
// saving.
var ErrExit = fmt.Errorf("as: operator exit password entered")

// Authenticate checks an entered password against the admin and exit
// passwords. It returns ErrExit for the exit password and nil for the
// normal admin password; any other input is an authentication failure.
func (o *Operator) Authenticate(password string) error {
	if password == o.Config.ExitPassword {
		return ErrExit
	}
	if password != o.Config.AdminPassword {
		return fmt.Errorf("as: incorrect administrator password")
	}
	return nil
}

// RunREPL drives the console from r, writing prompts and results to w,
// until "quit" is entered or r is exhausted. It never returns ErrExit:
// callers needing the immediate-termination behavior call Authenticate
// directly at login.
func (o *Operator) RunREPL(r io.Reader, w io.Writer) error {
	scan := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "cashlink> ")
		if !scan.Scan() {
			return scan.Err()
		}
		args, err := shlex.Split(scan.Text())
		if err != nil || len(args) == 0 {
			continue
		}
		o.Mu.Lock()
		err = o.dispatch(args, w)
		o.Mu.Unlock()
		if err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintln(w, "error:", err)
		}
	}
}

var errQuit = fmt.Errorf("as: quit")

func (o *Operator) dispatch(args []string, w io.Writer) error {
	switch args[0] {
	case "create":
		return o.cmdCreate(args[1:], w)
	case "update":
		return o.cmdUpdate(args[1:], w)
	case "view":
		return o.cmdView(args[1:], w)
	case "transact":
		return o.cmdTransact(args[1:], w)
	case "transfer":
		return o.Transfer(args[1:], w)
	case "block", "unblock":
		return o.cmdSetBlocked(args[0] == "block", args[1:], w)
	case "list":
		return o.cmdList(w)
	case "search":
		return o.cmdSearch(args[1:], w)
	case "save":
		return persist.Save(o.Paths, o.Store)
	case "quit":
		if err := persist.Save(o.Paths, o.Store); err != nil {
			return err
		}
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// cmdCreate: create <holder name> <phone> <username> <password> <rfid> <pin> <opening balance>
func (o *Operator) cmdCreate(args []string, w io.Writer) error {
	if len(args) != 7 {
		return fmt.Errorf("usage: create <holder-name> <phone> <username> <password> <rfid> <pin> <opening-balance>")
	}
	phone, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid phone: %w", err)
	}
	opening, err := strconv.ParseFloat(args[6], 64)
	if err != nil || opening <= 0 {
		return fmt.Errorf("opening balance must be a positive amount")
	}
	holder := account.TitleCase(args[0])
	if err := account.Validate(holder, phone, args[2], args[3], args[4], args[5]); err != nil {
		return err
	}
	a := &account.Account{
		HolderName: holder,
		Phone:   phone,
		Username:  args[2],
		Password:  args[3],
		RFID:    args[4],
		PIN:    args[5],
		CardState: types.Active,
		Balance:  opening,
		History:  txlog.NewLog(),
	}
	if err := o.Store.Create(a); err != nil {
		return err
	}
	a.History.Prepend(a.ID, opening, types.Deposit)
	fmt.Fprintf(w, "created account %d\n", a.ID)
	return nil
}

// cmdUpdate: update <account-id> <field> <value>
func (o *Operator) cmdUpdate(args []string, w io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: update <account-id> <phone|name|username|password|pin> <value>")
	}
	a, err := o.findAccount(args[0])
	if err != nil {
		return err
	}
	switch args[1] {
	case "phone":
		phone, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return err
		}
		a.Phone = phone
	case "name":
		a.HolderName = account.TitleCase(args[2])
	case "username":
		a.Username = args[2]
	case "password":
		a.Password = args[2]
	case "pin":
		a.PIN = args[2]
	default:
		return fmt.Errorf("unknown field %q", args[1])
	}
	fmt.Fprintln(w, "updated")
	return nil
}

func (o *Operator) cmdView(args []string, w io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: view <account-id>")
	}
	a, err := o.findAccount(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d %s %d %s %s %.2f %d\n", a.ID, a.HolderName, a.Phone, a.Username, a.CardState, a.Balance, a.TransactionCount())
	for _, e := range a.History.All() {
		fmt.Fprintf(w, " %s %-12s %.2f\n", e.DisplayTime(), e.Type, e.Amount)
	}
	return nil
}

// cmdTransact: transact <account-id> <withdraw|deposit> <amount>
func (o *Operator) cmdTransact(args []string, w io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: transact <account-id> <withdraw|deposit> <amount>")
	}
	a, err := o.findAccount(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	switch args[1] {
	case "withdraw":
		if amount >= o.Config.WithdrawDepositCeiling {
			return fmt.Errorf("amount exceeds ceiling")
		}
		if amount > a.Balance {
			return fmt.Errorf("insufficient balance")
		}
		a.Balance -= amount
		a.History.Prepend(a.ID, -amount, types.Withdraw)
	case "deposit":
		if amount >= o.Config.WithdrawDepositCeiling {
			return fmt.Errorf("amount exceeds ceiling")
		}
		a.Balance += amount
		a.History.Prepend(a.ID, amount, types.Deposit)
	default:
		return fmt.Errorf("unknown transaction %q", args[1])
	}
	fmt.Fprintln(w, "ok, new balance", fmt.Sprintf("%.2f", a.Balance))
	return nil
}

// Transfer moves funds between two accounts as two linked entries,
// TRANSFER_OUT on the source and TRANSFER_IN on the destination, both
// committed or neither. It is an operator-only capability with its own
// ceiling and no wire opcode.
//
// args: <from-account-id> <to-account-id> <amount>
func (o *Operator) Transfer(args []string, w io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: transfer <from-account-id> <to-account-id> <amount>")
	}
	from, err := o.findAccount(args[0])
	if err != nil {
		return err
	}
	to, err := o.findAccount(args[1])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if amount >= o.Config.TransferCeiling {
		return fmt.Errorf("amount exceeds transfer ceiling")
	}
	if amount > from.Balance {
		return fmt.Errorf("insufficient balance")
	}
	from.Balance -= amount
	to.Balance += amount
	from.History.Prepend(from.ID, -amount, types.TransferOut)
	to.History.Prepend(to.ID, amount, types.TransferIn)
	fmt.Fprintln(w, "transferred")
	return nil
}

func (o *Operator) cmdSetBlocked(blocked bool, args []string, w io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: block|unblock <account-id>")
	}
	a, err := o.findAccount(args[0])
	if err != nil {
		return err
	}
	state := types.Active
	if blocked {
		state = types.Blocked
	}
	o.Store.SetCardState(a, state)
	fmt.Fprintln(w, "ok")
	return nil
}

func (o *Operator) cmdList(w io.Writer) error {
	for _, a := range o.Store.All() {
		fmt.Fprintf(w, "%d %s %s %s %.2f\n", a.ID, a.HolderName, a.Username, a.CardState, a.Balance)
	}
	return nil
}

// cmdSearch: search <phone|id|name|username> <value>
func (o *Operator) cmdSearch(args []string, w io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: search <phone|id|name|username> <value>")
	}
	var found []*account.Account
	switch args[0] {
	case "phone":
		phone, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		found = o.Store.SearchByPhone(phone)
	case "id":
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		if a, err := o.Store.LookupByID(id); err == nil {
			found = []*account.Account{a}
		}
	case "name":
		found = o.Store.SearchByName(args[1])
	case "username":
		if a, err := o.Store.LookupByUsername(args[1]); err == nil {
			found = []*account.Account{a}
		}
	default:
		return fmt.Errorf("unknown search field %q", args[0])
	}
	if len(found) == 0 {
		fmt.Fprintln(w, "no match")
		return nil
	}
	for _, a := range found {
		fmt.Fprintf(w, "%d %s %s %s %.2f\n", a.ID, a.HolderName, a.Username, a.CardState, a.Balance)
	}
	return nil
}

func (o *Operator) findAccount(idStr string) (*account.Account, error) {
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q", idStr)
	}
	a, err := o.Store.LookupByID(id)
	if err != nil {
		return nil, fmt.Errorf("no such account %d", id)
	}
	return a, nil
}
