// Command account-server runs the account server side of an ATM link: it
// owns the account store, persists it to disk, answers the terminal
// controller's wire requests, and exposes an interactive operator
// console on stdin/stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"cashlink/account"
	"cashlink/as"
	"cashlink/link"
	"cashlink/persist"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to JSON config file (optional)")
		dataDir    = flag.String("data-dir", "", "override the configured data directory")
		device     = flag.String("device", "", "override the configured serial device")
		logLevel   = flag.String("log-level", "", "override the configured log level")
	)
	flag.Parse()

	cfg, err := as.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "account-server:", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *device != "" {
		cfg.Transport.Device = *device
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := as.NewLogger(cfg.Log)

	store := account.NewStore()
	paths := persist.Paths{Base: cfg.DataDir}
	if err := persist.Load(paths, store); err != nil {
		logger.Fatal("failed to load account store", "error", err)
	}
	logger.Info("account store loaded", "accounts", len(store.All()), "data_dir", cfg.DataDir)

	transportCfg := link.SerialConfig{Device: cfg.Transport.Device, Format: as.SerialFormat()}
	conn, err := link.Dial(cfg.Transport.Type, transportCfg)
	if err != nil {
		logger.Fatal("failed to open transport", "error", err, "device", cfg.Transport.Device)
	}
	defer conn.Close()

	// storeMu serializes every mutation of store between the dispatcher's
	// goroutine and the operator console's goroutine; neither the store
	// nor Account fields have their own locking.
	var storeMu sync.Mutex
	dispatcher := as.NewDispatcher(store, cfg, logger, &storeMu)
	operator := as.NewOperator(store, cfg, logger, &storeMu)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	dispatchErrs := make(chan error, 1)
	go func() {
		rd := link.NewReader(conn)
		wr := link.NewWriter(conn)
		dispatchErrs <- dispatcher.Serve(rd, wr)
	}()

	operatorDone := make(chan struct{})
	go func() {
		defer close(operatorDone)
		if err := operator.RunREPL(bufio.NewReader(os.Stdin), os.Stdout); err != nil && err != as.ErrExit {
			logger.Error("operator console exited", "error", err)
		}
	}()

	select {
	case <-sigCh:
		logger.Info("shutting down")
	case err := <-dispatchErrs:
		if err != nil {
			logger.Error("dispatcher stopped", "error", err)
		}
	case <-operatorDone:
		logger.Info("operator requested shutdown")
	}

	storeMu.Lock()
	err = persist.Save(paths, store)
	storeMu.Unlock()
	if err != nil {
		logger.Error("failed to save account store", "error", err)
		os.Exit(1)
	}
	logger.Info("account store saved")
}
