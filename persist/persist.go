// Package persist implements a paired on-disk layout: a primary store
// that is the load-at-startup source of truth, and a write-only report
// store computed as a human-readable view over it.
//
// The format itself (bare comma-separated lines, no quoting complexity)
// calls for encoding/csv directly rather than a third-party CSV library
// (see DESIGN.md).
package persist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cashlink/account"
	"cashlink/txlog"
	"cashlink/types"
)

const (
	primaryDir  = "dataz"
	primaryDBFile = "Db.csv"
	reportDir   = "filez"
	reportDBFile = "DataBase.csv"
	dirPerm    = 0777
)

var reportHeader = []string{
	"account_id", "holder_name", "phone", "username", "card_state", "balance", "transaction_count",
}

var reportTxnHeader = []string{"id", "date", "type", "amount"}

// Paths roots the two sibling directories relative to a base directory,
// normally the AS process's working directory.
type Paths struct {
	Base string
}

func (p Paths) primaryDir() string  { return filepath.Join(p.Base, primaryDir) }
func (p Paths) primaryDB() string  { return filepath.Join(p.primaryDir(), primaryDBFile) }
func (p Paths) primaryTxn(id uint64) string {
	return filepath.Join(p.primaryDir(), fmt.Sprintf("%d.csv", id))
}
func (p Paths) reportDir() string { return filepath.Join(p.Base, reportDir) }
func (p Paths) reportDB() string  { return filepath.Join(p.reportDir(), reportDBFile) }
func (p Paths) reportTxn(id uint64) string {
	return filepath.Join(p.reportDir(), fmt.Sprintf("%d.csv", id))
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, dirPerm)
}

// Load populates store from the primary files, creating the dataz/
// directory (empty) if it does not yet exist. Absence of a per-account
// transaction file is treated as an empty history, not an error.
func Load(paths Paths, store *account.Store) error {
	if err := ensureDir(paths.primaryDir()); err != nil {
		return fmt.Errorf("persist: create %s: %w", paths.primaryDir(), err)
	}
	f, err := os.Open(paths.primaryDB())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("persist: open %s: %w", paths.primaryDB(), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("persist: parse %s: %w", paths.primaryDB(), err)
	}
	for _, rec := range records {
		a, err := decodeAccountLine(rec)
		if err != nil {
			return err
		}
		a.History = txlog.NewLog()
		if err := loadHistory(paths, a); err != nil {
			return err
		}
		if err := store.Insert(a); err != nil {
			return err
		}
	}
	return nil
}

func loadHistory(paths Paths, a *account.Account) error {
	f, err := os.Open(paths.primaryTxn(a.ID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("persist: open transaction file for %d: %w", a.ID, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("persist: parse transaction file for %d: %w", a.ID, err)
	}
	for _, rec := range records {
		e, err := decodeTxnLine(rec)
		if err != nil {
			return err
		}
		a.History.LoadEntry(e)
	}
	return nil
}

func decodeAccountLine(rec []string) (*account.Account, error) {
	if len(rec) < 9 {
		return nil, fmt.Errorf("persist: short account record: %v", rec)
	}
	id, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("persist: account_id: %w", err)
	}
	phone, err := strconv.ParseUint(rec[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("persist: phone: %w", err)
	}
	stateInt, err := strconv.Atoi(rec[7])
	if err != nil {
		return nil, fmt.Errorf("persist: card_state: %w", err)
	}
	state, err := types.ParseCardState(stateInt)
	if err != nil {
		return nil, err
	}
	balance, err := strconv.ParseFloat(rec[8], 64)
	if err != nil {
		return nil, fmt.Errorf("persist: balance: %w", err)
	}
	return &account.Account{
		ID:     id,
		HolderName: rec[1],
		Phone:   phone,
		Username:  rec[3],
		Password:  rec[4],
		RFID:    rec[5],
		PIN:    rec[6],
		CardState: state,
		Balance:  balance,
	}, nil
}

func decodeTxnLine(rec []string) (txlog.Entry, error) {
	if len(rec) < 3 {
		return txlog.Entry{}, fmt.Errorf("persist: short transaction record: %v", rec)
	}
	id, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return txlog.Entry{}, fmt.Errorf("persist: transaction id: %w", err)
	}
	amount, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return txlog.Entry{}, fmt.Errorf("persist: transaction amount: %w", err)
	}
	typInt, err := strconv.Atoi(rec[2])
	if err != nil {
		return txlog.Entry{}, fmt.Errorf("persist: transaction type: %w", err)
	}
	typ, err := types.ParseTxType(typInt)
	if err != nil {
		return txlog.Entry{}, err
	}
	return txlog.Entry{ID: id, Amount: amount, Type: typ}, nil
}

// Save overwrites both the primary and report stores with a full snapshot.
// There is no incremental write-ahead log: a crash mid-save truncates the
// file and loses data.
func Save(paths Paths, store *account.Store) error {
	if err := savePrimary(paths, store); err != nil {
		return err
	}
	return WriteReport(paths, store)
}

func savePrimary(paths Paths, store *account.Store) error {
	if err := ensureDir(paths.primaryDir()); err != nil {
		return err
	}
	f, err := os.Create(paths.primaryDB())
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", paths.primaryDB(), err)
	}
	w := csv.NewWriter(f)
	for _, a := range store.All() {
		rec := []string{
			strconv.FormatUint(a.ID, 10),
			a.HolderName,
			strconv.FormatUint(a.Phone, 10),
			a.Username,
			a.Password,
			a.RFID,
			a.PIN,
			strconv.Itoa(a.CardState.Int()),
			strconv.FormatFloat(a.Balance, 'f', 2, 64),
			strconv.Itoa(a.TransactionCount()),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("persist: write %s: %w", paths.primaryDB(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	for _, a := range store.All() {
		if err := saveTxnFile(paths.primaryTxn(a.ID), a.History); err != nil {
			return err
		}
	}
	return nil
}

func saveTxnFile(path string, log *txlog.Log) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, e := range log.All() {
		rec := []string{
			strconv.FormatUint(e.ID, 10),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			strconv.Itoa(e.Type.Byte()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteReport computes and writes the human-readable report view, with
// a header row the primary store's files don't carry. It is never read
// back; treat it purely as a derived artifact of the primary store.
func WriteReport(paths Paths, store *account.Store) error {
	if err := ensureDir(paths.reportDir()); err != nil {
		return err
	}
	f, err := os.Create(paths.reportDB())
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", paths.reportDB(), err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		f.Close()
		return err
	}
	for _, a := range store.All() {
		rec := []string{
			strconv.FormatUint(a.ID, 10),
			a.HolderName,
			strconv.FormatUint(a.Phone, 10),
			a.Username,
			a.CardState.String(),
			strconv.FormatFloat(a.Balance, 'f', 2, 64),
			strconv.Itoa(a.TransactionCount()),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	for _, a := range store.All() {
		if err := writeReportTxnFile(paths.reportTxn(a.ID), a.History); err != nil {
			return err
		}
	}
	return nil
}

func writeReportTxnFile(path string, log *txlog.Log) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(reportTxnHeader); err != nil {
		return err
	}
	for _, e := range log.All() {
		rec := []string{
			strconv.FormatUint(e.ID, 10),
			e.DisplayTime(),
			e.Type.String(),
			strconv.FormatFloat(abs(e.Amount), 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
