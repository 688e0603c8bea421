// Command terminal-controller runs the terminal controller side of an
// ATM link: it drives the keypad, display and card reader through one
// session at a time, talking to an account server over a serial link.
//
// This command always wires the fake peripherals from package tc, so the
// session engine can be exercised on a host without attached hardware.
// The board implementations in tc/hw_board.go (tinygo build tag) are not
// used here.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"cashlink/link"
	"cashlink/tc"
	"cashlink/types"
)

func main() {
	var (
		device = flag.String("device", "/dev/ttyUSB0", "serial device connected to the account server")
		pipe   = flag.Bool("pipe", false, "use an in-memory loopback transport instead of a real serial device (testing)")
	)
	flag.Parse()

	logger := tc.NewLogger()

	var conn io.ReadWriteCloser
	var err error
	if *pipe {
		logger.Errorf("pipe transport requested but has no peer in this process; use the tests instead")
		os.Exit(1)
	} else {
		conn, err = link.Dial("serial", link.SerialConfig{Device: *device, Format: types.DefaultSerialFormat})
	}
	if err != nil {
		logger.Errorf("failed to open transport: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	mb := tc.NewMailbox(256)
	feeder := tc.NewRXFeeder(conn, mb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedErrs := make(chan error, 1)
	go func() { feedErrs <- feeder.Run(ctx) }()

	rd := link.NewReader(tc.NewMailboxReader(mb))
	wr := link.NewWriter(conn)

	keypad := tc.NewFakeKeypad()
	display := &tc.FakeDisplay{}
	card := tc.NewFakeCardReader()

	engine := tc.NewEngine(keypad, display, card, rd, wr)
	engine.Log = logger

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sessionErrs := make(chan error, 1)
	go func() {
		for {
			if err := engine.RunOnce(); err != nil {
				sessionErrs <- err
				return
			}
		}
	}()

	select {
	case <-sigCh:
		fmt.Fprintln(os.Stderr, "terminal-controller: shutting down")
	case err := <-sessionErrs:
		logger.Errorf("session loop stopped: %v", err)
		os.Exit(1)
	case err := <-feedErrs:
		logger.Errorf("receive feeder stopped: %v", err)
		os.Exit(1)
	}
}
