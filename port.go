package serial

import (
	"fmt"

	"github.com/luhtfiimanal/go-uart/irq"
)

// Port is the register-level view of one hardware serial port. A UART only
// touches it from Init and from its interrupt handler, except for arming the
// transmit interrupt after queueing a byte.
type Port interface {
	// IRQ returns the interrupt line the port signals on.
	IRQ() irq.Number
	// SetDivisor programs the baud-rate divisor.
	SetDivisor(div uint16) error
	// Pending returns the causes that are both active and enabled.
	Pending() irq.Cause
	EnableIRQ(c irq.Cause)
	DisableIRQ(c irq.Cause)
	// ReadData pops the receive FIFO.
	ReadData() byte
	// WriteData hands a byte to the transmitter.
	WriteData(b byte)
}

// Dispatcher is the platform's interrupt dispatch. irq.Controller satisfies
// it.
type Dispatcher interface {
	Register(n irq.Number, h irq.Handler) error
}

// Divisor returns the 16x oversampling divisor that gets closest to baud
// from clock.
func Divisor(clock, baud uint32) (uint16, error) {
	if clock == 0 || baud == 0 {
		return 0, fmt.Errorf("%w: clock %d, baud %d", ErrBaudRate, clock, baud)
	}
	div := (uint64(clock) + 8*uint64(baud)) / (16 * uint64(baud))
	if div == 0 || div > 0xFFFF {
		return 0, fmt.Errorf("%w: %d from clock %d", ErrBaudRate, baud, clock)
	}
	return uint16(div), nil
}
