// Package serial provides an interrupt-driven, character-oriented serial
// driver: a byte-at-a-time device contract (CharDev) and a UART that moves
// bytes between application goroutines and a hardware port through two
// bounded queues.
//
// The UART's interrupt handler runs in an interrupt context that must never
// block, so it only uses non-blocking queue operations. Application code
// calls GetChar and PutChar, which block according to a Wait policy:
// NoWait, Within(d) or Forever. Line and formatted helpers (Puts, Gets,
// Printf, Scanf) are written once against CharDev and work with any
// implementation.
//
// Features:
//   - Bounded receive and transmit queues with blocking and timeout semantics
//   - Transmit interrupt armed on demand, masked while the queue is empty
//   - Receive overflow counted, never blocking the interrupt handler
//   - One UART per physical port, handed out by a Registry
//   - Linux tty backend (raw termios, poll-driven) and a simulated port for tests
//
// Example usage:
//
//	ctrl := irq.NewController()
//	defer ctrl.Stop()
//
//	tty, err := serial.OpenTTY("/dev/ttyUSB0", ctrl.Line(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tty.Close()
//
//	reg := serial.NewRegistry(ctrl, serial.TTYClock)
//	if err := reg.Attach("uart0", tty); err != nil {
//	    log.Fatal(err)
//	}
//	uart, err := reg.UART("uart0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := uart.Init(serial.Config{BaudRate: 115200}); err != nil {
//	    log.Fatal(err)
//	}
//
//	serial.Printf(uart, "C,START")
//
//	buf := make([]byte, 128)
//	if n, ok := serial.Gets(uart, buf, serial.Within(time.Second)); ok {
//	    fmt.Println("Received:", string(buf[:n]))
//	}
//
// GetChar and PutChar must not be called from an interrupt handler.
package serial
