package serial

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luhtfiimanal/go-uart/irq"
	"github.com/luhtfiimanal/go-uart/queue"
	"github.com/rs/xid"
)

// UART is an interrupt-driven CharDev over one Port.
//
// Application goroutines block in GetChar and PutChar on two bounded
// queues. HandleInterrupt, run from the interrupt context, moves bytes
// between those queues and the port's FIFOs using only non-blocking queue
// operations. The transmit interrupt stays masked while the transmit queue
// is empty and is armed again by PutChar.
//
// A UART is obtained from a Registry and must be initialized with Init
// before use; until then GetChar and PutChar fail immediately.
type UART struct {
	Ready

	name  string
	id    xid.ID
	port  Port
	clock uint32

	initMu sync.Mutex
	q      atomic.Pointer[queues]

	drained chan struct{}

	rxBytes    atomic.Uint64
	txBytes    atomic.Uint64
	enqueued   atomic.Uint64 // bytes accepted by PutChar
	overruns   atomic.Uint64
	interrupts atomic.Uint64
}

type queues struct {
	rx, tx *queue.Queue
}

// Stats is a snapshot of a UART's counters.
type Stats struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// RxBytes counts bytes moved from the port into the receive queue.
	RxBytes uint64 `json:"rx_bytes"`
	// TxBytes counts bytes moved from the transmit queue to the port.
	TxBytes uint64 `json:"tx_bytes"`
	// Overruns counts received bytes dropped because the receive queue was
	// full.
	Overruns   uint64 `json:"overruns"`
	Interrupts uint64 `json:"interrupts"`
}

func newUART(name string, port Port, clock uint32) *UART {
	return &UART{
		name:    name,
		id:      xid.New(),
		port:    port,
		clock:   clock,
		drained: make(chan struct{}, 1),
	}
}

// Name returns the name the UART was registered under.
func (u *UART) Name() string { return u.name }

// ID returns the instance id used in log records and Stats.
func (u *UART) ID() string { return u.id.String() }

// Init programs the divisor, creates the queues and enables the receive
// interrupt. On error nothing is enabled and the UART stays uninitialized.
// Init succeeds once; later calls return ErrAlreadyInitialized.
func (u *UART) Init(cfg Config) error {
	u.initMu.Lock()
	defer u.initMu.Unlock()

	if u.port == nil {
		return ErrNoPort
	}
	if u.q.Load() != nil {
		return ErrAlreadyInitialized
	}

	log := logFor(componentUART).With("name", u.name, "id", u.id.String())
	cfg = cfg.withDefaults(u.clock)

	div, err := Divisor(cfg.ClockRate, cfg.BaudRate)
	if err != nil {
		log.Warn("init failed", "err", err)
		return fmt.Errorf("init %s: %w", u.name, err)
	}
	rx, err := queue.New(cfg.RxQueueSize)
	if err != nil {
		log.Warn("init failed", "err", err, "rx_queue", cfg.RxQueueSize)
		return fmt.Errorf("init %s: rx queue: %w", u.name, err)
	}
	tx, err := queue.New(cfg.TxQueueSize)
	if err != nil {
		log.Warn("init failed", "err", err, "tx_queue", cfg.TxQueueSize)
		return fmt.Errorf("init %s: tx queue: %w", u.name, err)
	}
	if err := u.port.SetDivisor(div); err != nil {
		log.Warn("init failed", "err", err, "divisor", div)
		return fmt.Errorf("init %s: set divisor: %w", u.name, err)
	}

	u.q.Store(&queues{rx: rx, tx: tx})
	u.port.EnableIRQ(irq.RxReady)

	log.Info("initialized",
		"baud", cfg.BaudRate,
		"divisor", div,
		"rx_queue", cfg.RxQueueSize,
		"tx_queue", cfg.TxQueueSize)
	return nil
}

// GetChar takes one received byte, waiting as allowed by w. It must not be
// called from an interrupt handler.
func (u *UART) GetChar(w Wait) (byte, bool) {
	q := u.q.Load()
	if q == nil {
		return 0, false
	}
	return q.rx.Pop(w)
}

// PutChar queues b for transmission, waiting for room as allowed by w, and
// arms the transmit interrupt so an idle transmitter picks it up. It must
// not be called from an interrupt handler.
func (u *UART) PutChar(b byte, w Wait) bool {
	q := u.q.Load()
	if q == nil {
		return false
	}
	if !q.tx.Push(b, w) {
		return false
	}
	u.enqueued.Add(1)
	u.port.EnableIRQ(irq.TxReady)
	return true
}

// HandleInterrupt services the port until it has no enabled cause left.
// Received bytes that find the receive queue full are dropped and counted
// in Stats().Overruns. It never blocks.
func (u *UART) HandleInterrupt() {
	q := u.q.Load()
	if q == nil {
		return
	}
	u.interrupts.Add(1)

	for {
		c := u.port.Pending()
		if c == 0 {
			return
		}
		if c&irq.RxReady != 0 {
			b := u.port.ReadData()
			if q.rx.TryPush(b) {
				u.rxBytes.Add(1)
			} else {
				u.overruns.Add(1)
			}
		}
		if c&irq.TxReady != 0 {
			if b, ok := q.tx.TryPop(); ok {
				u.port.WriteData(b)
				u.txBytes.Add(1)
				continue
			}
			u.port.DisableIRQ(irq.TxReady)
			// PutChar may have queued a byte and armed the interrupt
			// between the empty pop and the disable.
			if q.tx.Len() > 0 {
				u.port.EnableIRQ(irq.TxReady)
				continue
			}
			select {
			case u.drained <- struct{}{}:
			default:
			}
		}
	}
}

// Flush waits until every byte PutChar had accepted when Flush was called
// has been written to the port. A byte popped by the handler but not yet
// written still counts as pending.
func (u *UART) Flush(w Wait) bool {
	if u.q.Load() == nil {
		return true
	}
	target := u.enqueued.Load()
	written := func() bool { return u.txBytes.Load() >= target }
	if written() {
		return true
	}
	if !w.IsForever() && w.Duration() == 0 {
		return false
	}

	var expired <-chan time.Time
	if !w.IsForever() {
		t := time.NewTimer(w.Duration())
		defer t.Stop()
		expired = t.C
	}
	for !written() {
		select {
		case <-u.drained:
		case <-expired:
			return written()
		}
	}
	return true
}

// Capacity returns the receive and transmit queue capacities, or zeros
// before Init.
func (u *UART) Capacity() (rx, tx int) {
	q := u.q.Load()
	if q == nil {
		return 0, 0
	}
	return q.rx.Cap(), q.tx.Cap()
}

// RxBuffered returns the number of received bytes waiting for GetChar.
func (u *UART) RxBuffered() int {
	q := u.q.Load()
	if q == nil {
		return 0
	}
	return q.rx.Len()
}

// TxQueued returns the number of bytes waiting for the transmitter.
func (u *UART) TxQueued() int {
	q := u.q.Load()
	if q == nil {
		return 0
	}
	return q.tx.Len()
}

// Stats returns a snapshot of the counters.
func (u *UART) Stats() Stats {
	return Stats{
		ID:         u.id.String(),
		Name:       u.name,
		RxBytes:    u.rxBytes.Load(),
		TxBytes:    u.txBytes.Load(),
		Overruns:   u.overruns.Load(),
		Interrupts: u.interrupts.Load(),
	}
}
