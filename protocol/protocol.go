// Package protocol builds and parses the semantic request/response shapes
// carried by link.Frame. link owns framing (sentinel, CR LF,
// malformed-frame discard); protocol owns the meaning of what is between
// the colons.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"cashlink/errcode"
	"cashlink/link"
	"cashlink/types"
)

// Request opcodes.
const (
	OpCardCheck = "C"
	OpPinVerify = "V"
	OpAccount  = "A"
	OpLineCheck = "X"
	OpLineCheckY = "Y"
	OpPersist  = "Q"
)

// Account sub-ops, carried as the first field of an OpAccount body.
const (
	SubWithdraw = "WTD"
	SubDeposit  = "DEP"
	SubBalance  = "BAL"
	SubPinChange = "PIN"
	SubMiniStmt = "MST"
	SubBlock   = "BLK"
)

// Response tags.
const (
	TagOK = "OK"
	TagErr = "ERR"
	TagTxn = "TXN"
)

// CardCheckRequest builds "#C:<rfid8>$".
func CardCheckRequest(rfid string) link.Frame { return link.NewRequest(OpCardCheck, rfid) }

// PinVerifyRequest builds "#V:<rfid8>:<pin4>$".
func PinVerifyRequest(rfid, pin string) link.Frame {
	return link.NewRequest(OpPinVerify, rfid+":"+pin)
}

// MonetaryRequest builds "#A:<WTD|DEP>:<rfid8>:<amount>$".
func MonetaryRequest(sub, rfid string, amount float64) link.Frame {
	return link.NewRequest(OpAccount, fmt.Sprintf("%s:%s:%s", sub, rfid, formatAmount(amount)))
}

// BalanceRequest builds "#A:BAL:<rfid8>$".
func BalanceRequest(rfid string) link.Frame {
	return link.NewRequest(OpAccount, SubBalance+":"+rfid)
}

// MiniStatementRequest builds "#A:MST:<rfid8>:<n>$".
func MiniStatementRequest(rfid string, index int) link.Frame {
	return link.NewRequest(OpAccount, fmt.Sprintf("%s:%s:%d", SubMiniStmt, rfid, index))
}

// PinChangeRequest builds "#A:PIN:<rfid8>:<pin4>$".
func PinChangeRequest(rfid, newPin string) link.Frame {
	return link.NewRequest(OpAccount, SubPinChange+":"+rfid+":"+newPin)
}

// BlockRequest builds "#A:BLK:<rfid8>$".
func BlockRequest(rfid string) link.Frame {
	return link.NewRequest(OpAccount, SubBlock+":"+rfid)
}

// PersistRequest builds "#Q:SAVE$".
func PersistRequest() link.Frame { return link.NewRequest(OpPersist, "SAVE") }

// OKResponse builds "@OK:<payload>$".
func OKResponse(payload string) link.Frame { return link.NewResponse(TagOK, payload) }

// ErrResponse builds "@ERR:<code>$".
func ErrResponse(code errcode.Code) link.Frame { return link.NewResponse(TagErr, string(code)) }

// BalanceResponse builds "@OK:BAL=<amount>$", two decimal places.
func BalanceResponse(balance float64) link.Frame {
	return OKResponse(fmt.Sprintf("BAL=%s", formatAmount(balance)))
}

// CardActiveResponse builds "@OK:ACTIVE:<username>$".
func CardActiveResponse(username string) link.Frame {
	return OKResponse("ACTIVE:" + username)
}

// MiniStatementResponse builds "@TXN:<type>:<dd/mm/yyyy hh:mm>:<amount>$".
// type is the single numeric transaction code (1=WITHDRAW..4=TRANSFER_OUT),
// not the word form.
func MiniStatementResponse(typ types.TxType, displayTime string, amount float64) link.Frame {
	return link.NewResponse(TagTxn, fmt.Sprintf("%d:%s:%s", typ.Byte(), displayTime, formatAmount(abs(amount))))
}

// MiniStatementSentinel is the out-of-range reply: "@TXN:7:0:0$".
func MiniStatementSentinel() link.Frame {
	return link.NewResponse(TagTxn, "7:0:0")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ParseAccountBody splits an OpAccount request body into its sub-op,
// rfid, and remaining args (amount, pin, or index), colon-delimited.
func ParseAccountBody(body string) (sub, rfid, rest string, err error) {
	parts := strings.SplitN(body, ":", 3)
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("protocol: malformed account body %q", body)
	}
	sub = parts[0]
	rfid = parts[1]
	if len(rfid) != 8 {
		return "", "", "", fmt.Errorf("protocol: malformed rfid %q", rfid)
	}
	if len(parts) == 3 {
		rest = parts[2]
	}
	return sub, rfid, rest, nil
}

// ParseAmount parses a decimal amount field, accepting a fractional part.
func ParseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
