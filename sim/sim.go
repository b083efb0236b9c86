// Package sim models a register-level UART so the transfer path can run
// without hardware.
//
// The model has a receive FIFO fed by Inject, an interrupt enable register,
// a divisor register and a transmitter whose output is captured, looped
// back into the receive FIFO, or stalled. Interrupts are level-like: every
// time an enabled cause becomes active the port raises its line.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/luhtfiimanal/go-uart/irq"
)

// DefaultFIFODepth matches the 16-byte FIFO of common 16550-class UARTs.
const DefaultFIFODepth = 16

// ErrZeroDivisor is returned by SetDivisor for a zero divisor.
var ErrZeroDivisor = errors.New("sim: divisor must be non-zero")

// Option configures a Port.
type Option func(*Port)

// WithFIFODepth sets the receive FIFO depth.
func WithFIFODepth(n int) Option {
	return func(p *Port) {
		if n > 0 {
			p.depth = n
		}
	}
}

// WithLoopback routes every transmitted byte back into the receive FIFO.
func WithLoopback() Option {
	return func(p *Port) { p.loopback = true }
}

// Port is a simulated UART.
type Port struct {
	line irq.Line

	mu       sync.Mutex
	cond     *sync.Cond
	rx       []byte
	depth    int
	ier      irq.Cause
	divisor  uint16
	stalled  bool
	loopback bool
	out      []byte
	overruns uint64
}

// New creates a port that signals on line.
func New(line irq.Line, opts ...Option) *Port {
	p := &Port{line: line, depth: DefaultFIFODepth}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IRQ returns the line the port signals on.
func (p *Port) IRQ() irq.Number { return p.line.Number() }

// SetDivisor programs the baud-rate divisor.
func (p *Port) SetDivisor(div uint16) error {
	if div == 0 {
		return ErrZeroDivisor
	}
	p.mu.Lock()
	p.divisor = div
	p.mu.Unlock()
	return nil
}

// Divisor returns the last programmed divisor.
func (p *Port) Divisor() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.divisor
}

// Pending returns the active causes that are also enabled.
func (p *Port) Pending() irq.Cause {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingLocked()
}

func (p *Port) pendingLocked() irq.Cause {
	var c irq.Cause
	if len(p.rx) > 0 {
		c |= irq.RxReady
	}
	if !p.stalled {
		c |= irq.TxReady
	}
	return c & p.ier
}

// Enabled returns the interrupt enable register.
func (p *Port) Enabled() irq.Cause {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ier
}

// EnableIRQ sets bits in the interrupt enable register.
func (p *Port) EnableIRQ(c irq.Cause) {
	p.mu.Lock()
	p.ier |= c
	raise := p.pendingLocked() != 0
	p.mu.Unlock()
	if raise {
		p.line.Raise()
	}
}

// DisableIRQ clears bits in the interrupt enable register.
func (p *Port) DisableIRQ(c irq.Cause) {
	p.mu.Lock()
	p.ier &^= c
	p.mu.Unlock()
}

// ReadData pops the receive FIFO. It returns 0 when the FIFO is empty, as
// reading an empty data register does on real parts.
func (p *Port) ReadData() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	p.cond.Broadcast()
	return b
}

// WriteData transmits b.
func (p *Port) WriteData(b byte) {
	p.mu.Lock()
	p.out = append(p.out, b)
	if p.loopback {
		p.receiveLocked(b)
	}
	raise := p.pendingLocked()&irq.RxReady != 0
	p.cond.Broadcast()
	p.mu.Unlock()
	if raise {
		p.line.Raise()
	}
}

// receiveLocked latches a byte off the wire, overrunning when the FIFO is
// full.
func (p *Port) receiveLocked(b byte) {
	if len(p.rx) >= p.depth {
		p.overruns++
		return
	}
	p.rx = append(p.rx, b)
}

// Inject feeds bytes into the receive side as if they arrived on the wire.
// It blocks while the FIFO is full, so a running handler paces the input.
func (p *Port) Inject(data ...byte) {
	for _, b := range data {
		p.mu.Lock()
		for len(p.rx) >= p.depth {
			p.cond.Wait()
		}
		p.rx = append(p.rx, b)
		raise := p.pendingLocked()&irq.RxReady != 0
		p.mu.Unlock()
		if raise {
			p.line.Raise()
		}
	}
}

// InjectString is Inject for a string.
func (p *Port) InjectString(s string) { p.Inject([]byte(s)...) }

// SetStalled blocks or releases the transmitter. A stalled transmitter never
// reports TxReady.
func (p *Port) SetStalled(stalled bool) {
	p.mu.Lock()
	p.stalled = stalled
	raise := p.pendingLocked()&irq.TxReady != 0
	p.mu.Unlock()
	if raise {
		p.line.Raise()
	}
}

// Output returns a copy of everything transmitted so far.
func (p *Port) Output() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.out...)
}

// WaitOutput waits until at least n bytes were transmitted or timeout
// passes, and returns what was transmitted.
func (p *Port) WaitOutput(n int, timeout time.Duration) []byte {
	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer timer.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.out) < n && time.Now().Before(deadline) {
		p.cond.Wait()
	}
	return append([]byte(nil), p.out...)
}

// Overruns returns how many bytes the receive FIFO dropped.
func (p *Port) Overruns() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overruns
}
