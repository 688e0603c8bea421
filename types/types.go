// Package types holds small value types shared across the link, protocol,
// account and transaction-log packages.
package types

import "fmt"

// CardState is the two-valued lifecycle state of an account's card.
type CardState uint8

const (
	Active CardState = iota
	Blocked
)

func (s CardState) String() string {
	if s == Blocked {
		return "BLOCKED"
	}
	return "ACTIVE"
}

// ParseCardState parses the single-digit form stored in the primary CSV
// (0 = ACTIVE, 1 = BLOCKED).
func ParseCardState(v int) (CardState, error) {
	switch v {
	case 0:
		return Active, nil
	case 1:
		return Blocked, nil
	default:
		return Active, fmt.Errorf("types: invalid card_state %d", v)
	}
}

// Int returns the single-digit CSV encoding of the state.
func (s CardState) Int() int {
	if s == Blocked {
		return 1
	}
	return 0
}

// TxType is the kind of monetary effect a Transaction records.
type TxType uint8

const (
	Withdraw TxType = iota + 1
	Deposit
	TransferIn
	TransferOut
)

func (t TxType) String() string {
	switch t {
	case Withdraw:
		return "WITHDRAW"
	case Deposit:
		return "DEPOSIT"
	case TransferIn:
		return "TRANSFER_IN"
	case TransferOut:
		return "TRANSFER_OUT"
	default:
		return "UNKNOWN"
	}
}

// ParseTxType parses the single-byte CSV encoding (1=WITHDRAW, 2=DEPOSIT,
// 3=TRANSFER_IN, 4=TRANSFER_OUT).
func ParseTxType(v int) (TxType, error) {
	switch v {
	case 1:
		return Withdraw, nil
	case 2:
		return Deposit, nil
	case 3:
		return TransferIn, nil
	case 4:
		return TransferOut, nil
	default:
		return 0, fmt.Errorf("types: invalid transaction type %d", v)
	}
}

// Byte returns the single-byte CSV encoding of the type.
func (t TxType) Byte() int { return int(t) }

// SerialFormat describes the line parameters a transport must configure.
// The system is fixed at 9600 8N1 raw mode; this type exists so
// the configuration is explicit at the call site rather than implicit in
// the transport implementation.
type SerialFormat struct {
	Baud   uint32
	DataBits uint8
	StopBits uint8
	Parity  Parity
}

// DefaultSerialFormat is the format mandated by the wire protocol.
var DefaultSerialFormat = SerialFormat{Baud: 9600, DataBits: 8, StopBits: 1, Parity: ParityNone}

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}
