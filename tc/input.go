package tc

import "time"

// inputOutcome reports how a key-collection loop ended.
type inputOutcome int

const (
	inputComplete inputOutcome = iota
	inputCancelled
	inputTimedOut
)

// waitKey blocks (polling) for exactly one keypress, re-arming the
// per-input timer to InputTimeoutTicks on return and decrementing the
// session timer on every idle tick. It returns inputCancelled if 'C' is
// pressed and inputTimedOut if either timer reaches zero first.
func (e *Engine) waitKey() (byte, inputOutcome) {
	sessionTicks := e.SessionTimeoutTicks
	inputTicks := e.InputTimeoutTicks
	for {
		if key, ok := e.Keypad.PollKey(); ok {
			if key == KeyCancel {
				return key, inputCancelled
			}
			return key, inputComplete
		}
		time.Sleep(pollInterval)
		sessionTicks--
		inputTicks--
		if sessionTicks <= 0 || inputTicks <= 0 {
			return 0, inputTimedOut
		}
	}
}

// collectDigits gathers up to n digits, '*' deleting the last one and '#'
// confirming early; the session/input timers are re-armed on every
// keypress.
func (e *Engine) collectDigits(n int) (string, inputOutcome) {
	var buf []byte
	for len(buf) < n {
		key, outcome := e.waitKey()
		if outcome != inputComplete {
			return "", outcome
		}
		switch key {
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case KeyConfirm:
			return string(buf), inputComplete
		default:
			if key >= '0' && key <= '9' {
				buf = append(buf, key)
			}
		}
		e.showMessage("Enter", string(buf))
	}
	return string(buf), inputComplete
}

// collectPIN is collectDigits fixed at the protocol's 4-digit PIN length.
func (e *Engine) collectPIN() (string, inputOutcome) {
	pin, outcome := e.collectDigits(pinLength)
	if outcome != inputComplete {
		return "", outcome
	}
	if len(pin) < pinLength {
		// KeyConfirm pressed early: not a valid PIN, treat as cancel of
		// this attempt rather than sending a short PIN to the wire.
		return "", inputCancelled
	}
	return pin, inputComplete
}

// collectAmount gathers a whole-unit amount as digits, confirmed by '#';
// the keypad has no decimal point key, so there is never a '.' to collect.
func (e *Engine) collectAmount() (string, inputOutcome) {
	// The keypad has no decimal point key; amounts entered at the
	// terminal are whole units.
	var buf []byte
	for {
		key, outcome := e.waitKey()
		if outcome != inputComplete {
			return "", outcome
		}
		switch {
		case key == KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case key == KeyConfirm:
			if len(buf) == 0 {
				continue
			}
			return string(buf), inputComplete
		case key >= '0' && key <= '9':
			buf = append(buf, key)
		}
		e.showMessage("Amount", string(buf))
	}
}
