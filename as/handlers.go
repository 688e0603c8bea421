package as

import (
	"strconv"

	"cashlink/account"
	"cashlink/errcode"
	"cashlink/link"
	"cashlink/persist"
	"cashlink/protocol"
	"cashlink/types"
)

func registerHandlers(d *Dispatcher) {
	d.RegisterHandler(protocol.OpCardCheck, handleCardCheck)
	d.RegisterHandler(protocol.OpPinVerify, handlePinVerify)
	d.RegisterHandler(protocol.OpAccount, handleAccount)
	d.RegisterHandler(protocol.OpPersist, handlePersist)
	// protocol.OpLineCheck / OpLineCheckY are handled by link.EchoIfLineCheck
	// before frames ever reach the handler table.
}

func handleCardCheck(d *Dispatcher, body string) (link.Frame, bool) {
	a, err := d.Store.LookupByRFID(body)
	if err != nil {
		return protocol.ErrResponse(errcode.Invalid), true
	}
	if a.CardState == types.Blocked {
		return protocol.ErrResponse(errcode.Block), true
	}
	return protocol.CardActiveResponse(a.Username), true
}

func handlePinVerify(d *Dispatcher, body string) (link.Frame, bool) {
	rfid, pin, ok := splitOne(body)
	if !ok {
		return protocol.ErrResponse(errcode.Wrong), true
	}
	a, err := d.Store.LookupByRFID(rfid)
	if err != nil {
		// A miss must never crash; reply INVALID rather than WRONG, since
		// no account was found to compare the pin against.
		return protocol.ErrResponse(errcode.Invalid), true
	}
	if a.PIN != pin {
		return protocol.ErrResponse(errcode.Wrong), true
	}
	return protocol.OKResponse("MATCHED"), true
}

func handleAccount(d *Dispatcher, body string) (link.Frame, bool) {
	sub, rfid, rest, err := protocol.ParseAccountBody(body)
	if err != nil {
		return protocol.ErrResponse(errcode.InvalidParams), true
	}
	a, lookupErr := d.Store.LookupByRFID(rfid)
	if lookupErr != nil {
		return protocol.ErrResponse(errcode.Invalid), true
	}
	switch sub {
	case protocol.SubWithdraw:
		return handleMonetary(d, a, rest, types.Withdraw)
	case protocol.SubDeposit:
		return handleMonetary(d, a, rest, types.Deposit)
	case protocol.SubBalance:
		return protocol.BalanceResponse(a.Balance), true
	case protocol.SubMiniStmt:
		return handleMiniStatement(a, rest)
	case protocol.SubPinChange:
		// No validation of the old pin on the AS side; the TC is trusted
		// to have verified it locally.
		a.PIN = rest
		return protocol.OKResponse("DONE"), true
	case protocol.SubBlock:
		d.Store.SetCardState(a, types.Blocked)
		return protocol.OKResponse("DONE"), true
	default:
		return protocol.ErrResponse(errcode.Unsupported), true
	}
}

func handleMonetary(d *Dispatcher, a *account.Account, amountStr string, typ types.TxType) (link.Frame, bool) {
	amount, err := protocol.ParseAmount(amountStr)
	if err != nil || amount <= 0 {
		return protocol.ErrResponse(errcode.NegAmt), true
	}
	if amount >= d.Config.WithdrawDepositCeiling {
		return protocol.ErrResponse(errcode.MaxAmt), true
	}
	switch typ {
	case types.Withdraw:
		if amount > a.Balance {
			return protocol.ErrResponse(errcode.LowBal), true
		}
		a.Balance -= amount
		a.History.Prepend(a.ID, -amount, types.Withdraw)
	case types.Deposit:
		a.Balance += amount
		a.History.Prepend(a.ID, amount, types.Deposit)
	}
	return protocol.OKResponse("DONE"), true
}

func handleMiniStatement(a *account.Account, indexStr string) (link.Frame, bool) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return protocol.MiniStatementSentinel(), true
	}
	entry, ok := a.History.At(index)
	if !ok {
		return protocol.MiniStatementSentinel(), true
	}
	return protocol.MiniStatementResponse(entry.Type, entry.DisplayTime(), entry.Amount), true
}

func handlePersist(d *Dispatcher, _ string) (link.Frame, bool) {
	if err := persist.Save(d.Paths, d.Store); err != nil && d.Log != nil {
		d.Log.Errorf("persist on Q opcode failed: %v", err)
	}
	// No framed reply required for Q.
	return link.Frame{}, false
}

func splitOne(body string) (first, rest string, ok bool) {
	for i := 0; i < len(body); i++ {
		if body[i] == ':' {
			return body[:i], body[i+1:], true
		}
	}
	return "", "", false
}
