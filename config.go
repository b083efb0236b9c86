package serial

const (
	DefaultRxQueueSize = 32
	DefaultTxQueueSize = 64
)

// Config holds the parameters of UART.Init.
type Config struct {
	// ClockRate is the peripheral clock feeding the divisor. Zero uses the
	// clock the UART's registry was created with.
	ClockRate uint32
	BaudRate  uint32
	// RxQueueSize and TxQueueSize are the software queue capacities. Zero
	// picks the defaults; negative sizes are rejected.
	RxQueueSize int
	TxQueueSize int
}

func (c Config) withDefaults(clock uint32) Config {
	if c.ClockRate == 0 {
		c.ClockRate = clock
	}
	if c.RxQueueSize == 0 {
		c.RxQueueSize = DefaultRxQueueSize
	}
	if c.TxQueueSize == 0 {
		c.TxQueueSize = DefaultTxQueueSize
	}
	return c
}
