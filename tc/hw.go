package tc

// Keypad, Display and CardReader are the narrow interfaces the session
// engine drives. A build-tagged implementation backs the real board;
// a scripted fake backs host builds and tests.
type Keypad interface {
	// PollKey returns the next pressed key, non-blocking. ok is false if
	// no key is pending. Labels are {'0'..'9', '*', '#', 'A', 'B', 'C', 'D'}.
	PollKey() (key byte, ok bool)
}

type Display interface {
	// WriteLine sets the text of one row (0 or 1) of the 16x2 LCD,
	// truncating to 16 characters.
	WriteLine(row int, text string)
	Clear()
}

type CardReader interface {
	// PollCard returns a freshly presented card's 8-character RFID,
	// non-blocking. ok is false if no new card is pending.
	PollCard() (rfid string, ok bool)
}

const (
	KeyBackspace = '*'
	KeyConfirm  = '#'
	KeyUp    = 'A'
	KeyDown   = 'B'
	KeyCancel  = 'C'
)
