// Package tc implements the terminal controller: the per-card session
// state machine that drives the keypad/LCD/RFID reader and
// composes protocol requests over the link.
package tc

import (
	"time"

	"cashlink/link"
	"cashlink/protocol"
	"cashlink/x/fmtx"
	"cashlink/x/strconvx"
)

// State is one of the session states from table.
type State int

const (
	Idle State = iota
	CardPresented
	PinEntry
	Authenticated
	Operating
	BlockedEnd
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case CardPresented:
		return "CARD_PRESENTED"
	case PinEntry:
		return "PIN_ENTRY"
	case Authenticated:
		return "AUTHENTICATED"
	case Operating:
		return "OPERATING"
	case BlockedEnd:
		return "BLOCKED_END"
	default:
		return "UNKNOWN"
	}
}

const (
	pinRetryBudget    = 3
	pinChangeRetryBudget = 3
	pinLength      = 4

	// pollInterval is how often the main loop polls the keypad/card reader
	// when it has no pending I/O; it also defines the tick granularity of
	// the inactivity timers below.
	pollInterval = 20 * time.Millisecond
)

// Engine drives one session at a time; there is exactly one per TC,
// running a single-threaded cooperative loop with no concurrent sessions.
type Engine struct {
	Keypad   Keypad
	Display  Display
	CardReader CardReader

	rd *link.Reader
	wr *link.Writer

	// Log is the engine's diagnostic logger. NewEngine installs a stderr
	// default; callers may replace it before the first RunOnce.
	Log *Logger

	// SessionTimeoutTicks and InputTimeoutTicks are the fixed per-session
	// and per-keypress inactivity ceilings, expressed as countdown
	// counters decremented once per poll iteration while idle.
	SessionTimeoutTicks int
	InputTimeoutTicks  int

	state  State
	rfid  string
	pin   string
	retries int
}

// NewEngine builds an engine bound to one link connection and set of
// peripherals. Default timeouts are generous for a human at a keypad:
// 30s session inactivity, 15s per keystroke wait.
func NewEngine(kp Keypad, disp Display, card CardReader, rd *link.Reader, wr *link.Writer) *Engine {
	return &Engine{
		Keypad:       kp,
		Display:       disp,
		CardReader:     card,
		rd:         rd,
		wr:         wr,
		Log:         NewLogger(),
		SessionTimeoutTicks: int(30 * time.Second / pollInterval),
		InputTimeoutTicks:  int(15 * time.Second / pollInterval),
		state:        Idle,
	}
}

// State returns the engine's current state, chiefly for tests.
func (e *Engine) State() State { return e.state }

// RunOnce drives the engine through exactly one top-level iteration: if
// idle, waits for a card; otherwise runs one session to completion
// (IDLE -> ... -> IDLE). It returns normally when a session completes,
// letting the caller loop RunOnce forever. This split (rather than one
// unbounded Run) is what tests call directly to script a single session.
func (e *Engine) RunOnce() error {
	if err := e.lineCheck(); err != nil {
		e.Log.Warnf("line check failed: %v", err)
		return err
	}
	rfid, ok := e.awaitCard()
	if !ok {
		return nil
	}
	e.Log.Infof("card presented")
	e.rfid = rfid
	e.state = CardPresented
	return e.runSession()
}

func (e *Engine) lineCheck() error {
	return link.CheckX(e.wr, e.rd, func(msg string) { e.Log.Warnf("%s", msg) })
}

func (e *Engine) awaitCard() (string, bool) {
	for {
		if rfid, ok := e.CardReader.PollCard(); ok {
			return rfid, true
		}
		time.Sleep(pollInterval)
	}
}

// runSession executes CARD_PRESENTED through the session's return to IDLE.
func (e *Engine) runSession() error {
	resp, err := e.roundTrip(protocol.CardCheckRequest(e.rfid))
	if err != nil {
		return err
	}
	tag, payload := resp.Head, resp.Body
	if tag == protocol.TagErr {
		e.showError(payload)
		e.state = Idle
		return nil
	}
	// "@OK:ACTIVE:<username>$"
	e.state = PinEntry
	e.retries = pinRetryBudget
	return e.runPinEntry()
}

func (e *Engine) runPinEntry() error {
	for {
		pin, outcome := e.collectPIN()
		switch outcome {
		case inputCancelled, inputTimedOut:
			e.state = Idle
			if outcome == inputTimedOut {
				e.showMessage("Session Time-Out", "")
			}
			return nil
		}
		resp, err := e.roundTrip(protocol.PinVerifyRequest(e.rfid, pin))
		if err != nil {
			return err
		}
		if resp.Head == protocol.TagOK {
			e.state = Authenticated
			e.pin = pin
			return e.runMenu()
		}
		e.retries--
		if e.retries <= 0 {
			e.state = BlockedEnd
			return e.runBlockedEnd()
		}
		e.showMessage("Wrong PIN", fmtx.Sprintf("%d tries left", e.retries))
	}
}

func (e *Engine) runBlockedEnd() error {
	e.showMessage("Card Blocked", "")
	for {
		resp, err := e.roundTrip(protocol.BlockRequest(e.rfid))
		if err != nil {
			return err
		}
		if resp.Head == protocol.TagOK {
			e.state = Idle
			return nil
		}
	}
}

// menuEntry is one of the six main-menu choices.
type menuEntry struct {
	digit byte
	label string
}

var menu = []menuEntry{
	{'1', "Withdraw"},
	{'2', "Deposit"},
	{'3', "Balance"},
	{'4', "Mini-Statement"},
	{'5', "Change PIN"},
	{'6', "Exit"},
}

func (e *Engine) runMenu() error {
	cursor := 0
	showMenu := true
	for {
		if showMenu {
			e.showMessage(menu[cursor].label, "A/B move #ok")
		}
		showMenu = true
		key, outcome := e.waitKey()
		switch outcome {
		case inputCancelled:
			e.state = Idle
			return nil
		case inputTimedOut:
			e.state = Idle
			e.showMessage("Session Time-Out", "")
			return nil
		}
		switch key {
		case KeyUp:
			cursor = (cursor - 1 + len(menu)) % len(menu)
		case KeyDown:
			cursor = (cursor + 1) % len(menu)
		case KeyCancel:
			e.state = Idle
			return nil
		default:
			if key == menu[cursor].digit || key == KeyConfirm {
				e.state = Operating
				done, err := e.runOperation(menu[cursor].digit)
				if err != nil {
					return err
				}
				if done {
					e.state = Idle
					return nil
				}
				e.state = Authenticated
				// Leave the operation's result on the display until the
				// next keypress.
				showMenu = false
			}
		}
	}
}

// runOperation executes one menu pick's protocol exchange. done is true
// when the session should return to IDLE (exit, or a post-BLK lockout
// reached via PIN-change exhaustion).
func (e *Engine) runOperation(digit byte) (done bool, err error) {
	switch digit {
	case '1', '2':
		return e.runMonetary(digit)
	case '3':
		return e.runBalance()
	case '4':
		return e.runMiniStatement()
	case '5':
		return e.runPinChange()
	case '6':
		return true, nil
	}
	return false, nil
}

func (e *Engine) runMonetary(digit byte) (bool, error) {
	amountStr, outcome := e.collectAmount()
	if outcome != inputComplete {
		return false, nil
	}
	amount, _ := strconvx.ParseFloat(amountStr, 64)
	sub := protocol.SubWithdraw
	if digit == '2' {
		sub = protocol.SubDeposit
	}
	resp, err := e.roundTrip(protocol.MonetaryRequest(sub, e.rfid, amount))
	if err != nil {
		return false, err
	}
	if resp.Head == protocol.TagOK {
		e.showMessage("Done", "")
	} else {
		e.showError(resp.Body)
	}
	return false, nil
}

func (e *Engine) runBalance() (bool, error) {
	resp, err := e.roundTrip(protocol.BalanceRequest(e.rfid))
	if err != nil {
		return false, err
	}
	e.showMessage("Balance", resp.Body)
	return false, nil
}

func (e *Engine) runMiniStatement() (bool, error) {
	idxStr, outcome := e.collectDigits(2)
	if outcome != inputComplete {
		return false, nil
	}
	index, _ := strconvx.Atoi(idxStr)
	resp, err := e.roundTrip(protocol.MiniStatementRequest(e.rfid, index))
	if err != nil {
		return false, err
	}
	if resp.Body == "7:0:0" {
		e.showMessage("No Entry", "")
		return false, nil
	}
	e.showMessage(resp.Head, resp.Body)
	return false, nil
}

// runPinChange implements the guarded PIN-change substate: the old PIN
// must match the already-verified session PIN, the new PIN is entered
// twice, and old-PIN mismatches consume a separate 3-attempt budget
// ending in BLOCKED_END.
func (e *Engine) runPinChange() (bool, error) {
	changeRetries := pinChangeRetryBudget
	for {
		oldPin, outcome := e.collectPIN()
		if outcome != inputComplete {
			return false, nil
		}
		if oldPin != e.pin {
			changeRetries--
			if changeRetries <= 0 {
				e.state = BlockedEnd
				return true, e.runBlockedEnd()
			}
			e.showMessage("Wrong PIN", fmtx.Sprintf("%d tries left", changeRetries))
			continue
		}
		break
	}
	newPin1, outcome := e.collectPIN()
	if outcome != inputComplete {
		return false, nil
	}
	newPin2, outcome := e.collectPIN()
	if outcome != inputComplete {
		return false, nil
	}
	if newPin1 != newPin2 {
		e.showMessage("PIN Mismatch", "")
		return false, nil
	}
	resp, err := e.roundTrip(protocol.PinChangeRequest(e.rfid, newPin1))
	if err != nil {
		return false, err
	}
	if resp.Head == protocol.TagOK {
		e.pin = newPin1
		e.showMessage("PIN Changed", "")
	}
	return false, nil
}

func (e *Engine) roundTrip(req link.Frame) (link.Frame, error) {
	if err := e.wr.WriteFrame(req); err != nil {
		return link.Frame{}, err
	}
	return e.rd.ReadFrame()
}

func (e *Engine) showMessage(row0, row1 string) {
	e.Display.Clear()
	e.Display.WriteLine(0, row0)
	e.Display.WriteLine(1, row1)
}

func (e *Engine) showError(code string) {
	e.showMessage("Error", code)
}
