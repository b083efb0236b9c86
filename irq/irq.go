// Package irq emulates a platform interrupt controller on a host.
//
// A Controller owns a single goroutine that acts as the interrupt context:
// registered handlers run on it one at a time and are never preempted by
// another handler. Devices signal through a Line, whose Raise is
// non-blocking and coalescing, so raising is safe from a handler, from a
// device goroutine or from application code.
package irq

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// MaxLines is the number of lines a Controller multiplexes.
const MaxLines = 64

var (
	// ErrInvalidLine is returned for a line number outside [0, MaxLines).
	ErrInvalidLine = errors.New("irq: line out of range")
	// ErrLineInUse is returned by Register when the line already has a
	// handler.
	ErrLineInUse = errors.New("irq: line already has a handler")
	// ErrStopped is returned by Register after Stop.
	ErrStopped = errors.New("irq: controller stopped")
)

// Number identifies an interrupt line.
type Number int

// Cause is a set of interrupt conditions a serial port can signal.
type Cause uint8

const (
	// RxReady is set while the receive FIFO holds data.
	RxReady Cause = 1 << iota
	// TxReady is set while the transmitter can accept a byte.
	TxReady
)

func (c Cause) String() string {
	switch c {
	case 0:
		return "none"
	case RxReady:
		return "rx"
	case TxReady:
		return "tx"
	case RxReady | TxReady:
		return "rx|tx"
	default:
		return fmt.Sprintf("cause(%#x)", uint8(c))
	}
}

// Handler services one interrupt. It must not block.
type Handler func()

// Controller dispatches raised lines to their handlers.
type Controller struct {
	mu       sync.RWMutex
	handlers [MaxLines]Handler

	pending  atomic.Uint64
	spurious atomic.Uint64
	serviced atomic.Uint64

	wake     chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// NewController starts a controller. Stop it when done.
func NewController() *Controller {
	c := &Controller{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go c.run()
	return c
}

// Register installs h as the handler for line n.
func (c *Controller) Register(n Number, h Handler) error {
	if n < 0 || n >= MaxLines {
		return fmt.Errorf("%w: %d", ErrInvalidLine, n)
	}
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers[n] != nil {
		return fmt.Errorf("%w: %d", ErrLineInUse, n)
	}
	c.handlers[n] = h
	return nil
}

// Unregister removes the handler of line n, if any.
func (c *Controller) Unregister(n Number) {
	if n < 0 || n >= MaxLines {
		return
	}
	c.mu.Lock()
	c.handlers[n] = nil
	c.mu.Unlock()
}

// Line returns the signalling end of line n.
func (c *Controller) Line(n Number) Line {
	return Line{ctrl: c, num: n}
}

// Raise marks line n pending and wakes the interrupt goroutine.
func (c *Controller) Raise(n Number) {
	if n < 0 || n >= MaxLines {
		return
	}
	for bit := uint64(1) << uint(n); ; {
		old := c.pending.Load()
		if c.pending.CompareAndSwap(old, old|bit) {
			break
		}
	}
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Spurious returns how many raises found no handler.
func (c *Controller) Spurious() uint64 { return c.spurious.Load() }

// Serviced returns how many handler invocations have completed.
func (c *Controller) Serviced() uint64 { return c.serviced.Load() }

// Stop halts dispatching and waits for a running handler to return.
// Safe to call multiple times.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	<-c.exited
}

func (c *Controller) run() {
	defer close(c.exited)
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}
		for {
			p := c.pending.Swap(0)
			if p == 0 {
				break
			}
			for n := Number(0); p != 0; n++ {
				if p&1 != 0 {
					c.dispatch(n)
				}
				p >>= 1
			}
		}
	}
}

func (c *Controller) dispatch(n Number) {
	c.mu.RLock()
	h := c.handlers[n]
	c.mu.RUnlock()
	if h == nil {
		c.spurious.Add(1)
		return
	}
	h()
	c.serviced.Add(1)
}

// Line is the device end of an interrupt line.
type Line struct {
	ctrl *Controller
	num  Number
}

// Raise signals the line. A zero Line is a no-op.
func (l Line) Raise() {
	if l.ctrl != nil {
		l.ctrl.Raise(l.num)
	}
}

// Number returns the line number.
func (l Line) Number() Number { return l.num }
