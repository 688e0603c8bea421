//go:build tinygo

package tc

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx"
	"tinygo.org/x/drivers/hd44780"
	"tinygo.org/x/drivers/mfrc522"

	"cashlink/x/conv"
)

// BoardKeypad, BoardDisplay and BoardCardReader are the real-hardware
// implementations of the tc.Keypad/Display/CardReader interfaces,
// compiled only into the embedded board build. They are intentionally
// thin: all session logic lives in the platform-independent Engine.

type BoardDisplay struct {
	lcd hd44780.Device
}

func NewBoardDisplay(bus hd44780.BusDriver) *BoardDisplay {
	d := hd44780.New(bus)
	d.Configure(hd44780.Config{Width: 16, Height: 2})
	return &BoardDisplay{lcd: d}
}

func (d *BoardDisplay) WriteLine(row int, text string) {
	if len(text) > 16 {
		text = text[:16]
	}
	d.lcd.SetCursor(0, uint8(row))
	d.lcd.Print([]byte(text))
}

func (d *BoardDisplay) Clear() { d.lcd.ClearDisplay() }

type BoardCardReader struct {
	rfid mfrc522.Device
}

func NewBoardCardReader(bus machine.SPI, cs machine.Pin) *BoardCardReader {
	dev := mfrc522.New(bus, cs, machine.NoPin)
	dev.Configure()
	return &BoardCardReader{rfid: dev}
}

// PollCard hex-encodes the reader's 4-byte UID into the 8-character RFID
// string the protocol expects.
func (c *BoardCardReader) PollCard() (string, bool) {
	if !c.rfid.IsNewCardPresent() {
		return "", false
	}
	uid, err := c.rfid.ReadUID()
	if err != nil {
		return "", false
	}
	var buf [8]byte
	var n uint32
	for _, b := range uid[:4] {
		n = n<<8 | uint32(b)
	}
	return string(conv.U32Hex(buf[:], n)), true
}

// BoardKeypad scans a 4x4 matrix keypad directly through its row and
// column GPIO pins.
type BoardKeypad struct {
	rows, cols []machine.Pin
	labels   [4][4]byte
}

func NewBoardKeypad(rows, cols []machine.Pin) *BoardKeypad {
	return &BoardKeypad{
		rows: rows,
		cols: cols,
		labels: [4][4]byte{
			{'1', '2', '3', 'A'},
			{'4', '5', '6', 'B'},
			{'7', '8', '9', 'C'},
			{'*', '0', '#', 'D'},
		},
	}
}

func (k *BoardKeypad) PollKey() (byte, bool) {
	for ri, row := range k.rows {
		row.High()
		for ci, col := range k.cols {
			if col.Get() {
				row.Low()
				return k.labels[ri][ci], true
			}
		}
		row.Low()
	}
	return 0, false
}

// OpenBoardUART provisions the host-link UART via tinygo-uartx.
func OpenBoardUART(cfg uartx.Config) (*uartx.Port, error) {
	return uartx.Open(cfg)
}
