// Package as implements the account server side of the system: the
// request dispatcher, wired on top of the account store and
// transaction log, plus an interactive operator console.
package as

import (
	"fmt"
	"sync"

	"cashlink/account"
	"cashlink/link"
	"cashlink/persist"
)

// Handler executes one recognized opcode to completion and reports
// whether a framed reply should be sent (the Q opcode has none).
type Handler func(d *Dispatcher, body string) (link.Frame, bool)

// Dispatcher routes one well-formed request frame at a time to a
// registered handler, keyed by the request's OP character. Handlers are
// registered once at construction and looked up by a short string key,
// panicking on a duplicate registration (a programmer error, never a
// runtime condition).
type Dispatcher struct {
	Store *account.Store
	Paths persist.Paths
	Config Config
	Log  *Logger

	// Mu guards every mutation of Store. The dispatcher and an Operator
	// console can run on separate goroutines against the same store, so
	// each takes Mu for the duration of one frame/command before
	// touching an Account.
	Mu *sync.Mutex

	handlers map[string]Handler
}

// NewDispatcher builds a dispatcher with the standard opcode table
// registered. mu is shared with the Operator driven against the same
// store so the two never mutate it concurrently.
func NewDispatcher(store *account.Store, cfg Config, logger *Logger, mu *sync.Mutex) *Dispatcher {
	d := &Dispatcher{
		Store:  store,
		Paths:  persist.Paths{Base: cfg.DataDir},
		Config:  cfg,
		Log:   logger,
		Mu:   mu,
		handlers: make(map[string]Handler),
	}
	registerHandlers(d)
	return d
}

// RegisterHandler adds a handler for opcode op, panicking if one is
// already registered.
func (d *Dispatcher) RegisterHandler(op string, h Handler) {
	if _, exists := d.handlers[op]; exists {
		panic(fmt.Sprintf("as: duplicate handler for opcode %q", op))
	}
	d.handlers[op] = h
}

// Serve runs the single-threaded dispatch loop against one link
// connection until the link breaks: read one frame, dispatch it to
// completion, write at most one reply, repeat. No handler runs
// concurrently with another.
func (d *Dispatcher) Serve(rd *link.Reader, wr *link.Writer) error {
	for {
		f, err := rd.ReadFrame()
		if err != nil {
			return err
		}
		if handled, err := link.EchoIfLineCheck(f, wr); handled {
			if err != nil {
				return err
			}
			continue
		}
		if f.Sentinel != link.SentinelRequest {
			continue // stray response; never expected, ignore
		}
		h, ok := d.handlers[f.Head]
		if !ok {
			// Unrecognized opcode: no reply at all. The TC's own
			// session-inactivity timer is what unwedges it.
			if d.Log != nil {
				d.Log.Warnf("unrecognized opcode %q", f.Head)
			}
			continue
		}
		d.Mu.Lock()
		resp, reply := h(d, f.Body)
		d.Mu.Unlock()
		if !reply {
			continue
		}
		if err := wr.WriteFrame(resp); err != nil {
			return err
		}
	}
}
