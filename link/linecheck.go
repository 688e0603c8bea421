package link

import "fmt"

// CheckX performs the TC-initiated liveness handshake: transmit
// "@X:LINEOK$" and block-read until the peer echoes back "#X:LINEOK$".
// The peer's receive path treats LINEOK as a reserved token and echoes
// it immediately, bypassing its normal dispatcher, so this call never
// waits behind an in-flight business frame.
//
// warn, if non-nil, is called with a description of any frame received
// while waiting for the echo that isn't the expected one; the caller
// wires it to its own logger.
func CheckX(wr *Writer, rd *Reader, warn func(string)) error {
	if err := wr.WriteFrame(NewResponse("X", LineOK)); err != nil {
		return err
	}
	for {
		f, err := rd.ReadFrame()
		if err != nil {
			return err
		}
		if f.Sentinel == SentinelRequest && f.Head == "X" && f.Body == LineOK {
			return nil
		}
		// Non-liveness traffic while waiting for the echo is not expected
		// under the strictly-alternating protocol; log and keep waiting.
		if warn != nil {
			warn("line check: unexpected frame while awaiting echo: " + f.describe())
		}
	}
}

// EchoIfLineCheck recognizes an inbound LINEOK probe and immediately
// answers it, returning true. It is the receive-side half of the X/Y line
// check pair and bypasses normal opcode dispatch entirely.
func EchoIfLineCheck(f Frame, wr *Writer) (bool, error) {
	if f.Body != LineOK {
		return false, nil
	}
	switch {
	case f.Sentinel == SentinelResponse && f.Head == "X":
		return true, wr.WriteFrame(NewRequest("X", LineOK))
	case f.Sentinel == SentinelResponse && f.Head == "Y":
		return true, wr.WriteFrame(NewRequest("Y", LineOK))
	case f.Sentinel == SentinelRequest && f.Head == "X":
		return true, wr.WriteFrame(NewResponse("X", LineOK))
	case f.Sentinel == SentinelRequest && f.Head == "Y":
		return true, wr.WriteFrame(NewResponse("Y", LineOK))
	default:
		return false, nil
	}
}

// String helper used by callers logging a handshake failure.
func (f Frame) describe() string {
	return fmt.Sprintf("%c%s:%s$", f.Sentinel, f.Head, f.Body)
}
