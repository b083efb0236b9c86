//go:build linux

package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/luhtfiimanal/go-uart/irq"
	"golang.org/x/sys/unix"
)

// TTYClock is the reference clock a TTY uses to turn a divisor back into a
// baud rate, the 1.8432 MHz crystal of PC serial ports.
const TTYClock = 1843200

const ttyFIFODepth = 16

// TTY is a Port backed by a Linux terminal device. The device is put in raw
// mode; a poller goroutine plays the part of the UART hardware, filling a
// 16-byte receive FIFO and raising the line when data arrives or when a
// byte the kernel refused has finally been written.
type TTY struct {
	fd     int
	device string
	line   irq.Line

	done      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd

	mu     sync.Mutex
	closed bool // set by Close before the fds are released
	rx     []byte
	hold   []byte // bytes waiting for POLLOUT
	ier    irq.Cause
	err    error
}

// OpenTTY opens device in raw, non-blocking mode and starts signalling on
// line. The baud rate is set later through SetDivisor.
func OpenTTY(device string, line irq.Line) (*TTY, error) {
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0666)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set termios: %w", err)
	}

	// Self-pipe wakes the poller on close and when its poll set changes.
	pipeFds := make([]int, 2)
	if err := unix.Pipe2(pipeFds, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("pipe: %w", err)
	}

	t := &TTY{
		fd:     fd,
		device: device,
		line:   line,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
	}
	go t.poll()

	logFor(componentTTY).Info("opened", "device", device, "irq", int(line.Number()))
	return t, nil
}

// IRQ returns the line the tty signals on.
func (t *TTY) IRQ() irq.Number { return t.line.Number() }

// SetDivisor converts div against TTYClock into one of the standard baud
// rates and applies it. It fails with ErrClosed after Close.
func (t *TTY) SetDivisor(div uint16) error {
	if div == 0 {
		return fmt.Errorf("%w: divisor 0", ErrBaudRate)
	}
	baud := TTYClock / (16 * uint32(div))
	speed, ok := baudToUnix(baud)
	if !ok {
		return fmt.Errorf("%w: %d (divisor %d)", ErrBaudRate, baud, div)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	termios, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= speed
	termios.Ispeed = speed
	termios.Ospeed = speed
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	return nil
}

// Pending returns the active causes that are also enabled.
func (t *TTY) Pending() irq.Cause {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingLocked()
}

func (t *TTY) pendingLocked() irq.Cause {
	if t.closed {
		return 0
	}
	var c irq.Cause
	if len(t.rx) > 0 {
		c |= irq.RxReady
	}
	if len(t.hold) == 0 {
		c |= irq.TxReady
	}
	return c & t.ier
}

func (t *TTY) EnableIRQ(c irq.Cause) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.ier |= c
	raise := t.pendingLocked() != 0
	t.mu.Unlock()
	if raise {
		t.line.Raise()
	}
}

func (t *TTY) DisableIRQ(c irq.Cause) {
	t.mu.Lock()
	t.ier &^= c
	t.mu.Unlock()
}

// ReadData pops the receive FIFO, returning 0 when it is empty.
func (t *TTY) ReadData() byte {
	t.mu.Lock()
	if len(t.rx) == 0 {
		t.mu.Unlock()
		return 0
	}
	wasFull := len(t.rx) >= ttyFIFODepth
	b := t.rx[0]
	t.rx = t.rx[1:]
	t.mu.Unlock()

	if wasFull {
		t.wake()
	}
	return b
}

// WriteData writes b to the device. If the kernel buffer is full the byte
// is held, TxReady drops, and the poller finishes the write. Bytes written
// after Close are discarded.
func (t *TTY) WriteData(b byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if len(t.hold) > 0 {
		t.hold = append(t.hold, b)
		return
	}

	n, err := unix.Write(t.fd, []byte{b})
	if n == 1 {
		return
	}
	if err != nil && !errors.Is(err, unix.EAGAIN) {
		t.failLocked(fmt.Errorf("write: %w", err))
		return
	}
	t.hold = append(t.hold, b)
	t.wakeLocked()
}

// Err returns the error that stopped the poller, if any.
func (t *TTY) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close stops the poller and closes the device.
// Safe to call multiple times; subsequent calls are no-ops.
func (t *TTY) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		if t.err == nil {
			t.err = ErrClosed
		}
		t.mu.Unlock()

		close(t.done)
		// Wake up poll using self-pipe; the fds stay open until it exits.
		unix.Write(t.pipeW, []byte{1})
		<-t.exited
		err = unix.Close(t.fd)
		unix.Close(t.pipeR)
		unix.Close(t.pipeW)
		logFor(componentTTY).Info("closed", "device", t.device)
	})
	return err
}

func (t *TTY) wake() {
	t.mu.Lock()
	t.wakeLocked()
	t.mu.Unlock()
}

// wakeLocked pokes the self-pipe unless Close has released it.
func (t *TTY) wakeLocked() {
	if !t.closed {
		unix.Write(t.pipeW, []byte{1})
	}
}

func (t *TTY) fail(err error) {
	t.mu.Lock()
	t.failLocked(err)
	t.mu.Unlock()
}

func (t *TTY) failLocked(err error) {
	if t.err == nil {
		t.err = err
	}
	logFor(componentTTY).Error("port failed", "device", t.device, "err", err)
}

// poll is the hardware side of the tty: it moves bytes between the device
// and the FIFO/hold buffers and raises the line when the handler has work.
func (t *TTY) poll() {
	defer close(t.exited)

	buf := make([]byte, ttyFIFODepth)
	var drain [64]byte
	for {
		var events int16
		t.mu.Lock()
		if len(t.rx) < ttyFIFODepth {
			events |= unix.POLLIN
		}
		if len(t.hold) > 0 {
			events |= unix.POLLOUT
		}
		t.mu.Unlock()

		// Use poll to wait for the device or the self-pipe
		pfd := []unix.PollFd{
			{Fd: int32(t.fd), Events: events},
			{Fd: int32(t.pipeR), Events: unix.POLLIN},
		}
		if _, err := unix.Poll(pfd, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			t.fail(fmt.Errorf("poll: %w", err))
			return
		}
		// Check killability
		select {
		case <-t.done:
			return
		default:
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			for {
				if n, _ := unix.Read(t.pipeR, drain[:]); n <= 0 {
					break
				}
			}
		}

		raise := false
		rev := pfd[0].Revents
		if rev&unix.POLLIN != 0 {
			t.mu.Lock()
			room := ttyFIFODepth - len(t.rx)
			t.mu.Unlock()

			n, err := unix.Read(t.fd, buf[:room])
			if n > 0 {
				t.mu.Lock()
				t.rx = append(t.rx, buf[:n]...)
				raise = t.ier&irq.RxReady != 0
				t.mu.Unlock()
			}
			switch {
			case err != nil && !errors.Is(err, unix.EAGAIN):
				t.fail(fmt.Errorf("read: %w", err))
				return
			case n == 0 && err == nil:
				t.fail(io.EOF)
				return
			}
		}
		if rev&unix.POLLOUT != 0 {
			t.mu.Lock()
			n, err := unix.Write(t.fd, t.hold)
			if n > 0 {
				t.hold = t.hold[n:]
			}
			if len(t.hold) == 0 && t.ier&irq.TxReady != 0 {
				raise = true
			}
			t.mu.Unlock()
			if err != nil && !errors.Is(err, unix.EAGAIN) {
				t.fail(fmt.Errorf("write: %w", err))
				return
			}
		}
		if rev&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && rev&unix.POLLIN == 0 {
			t.fail(fmt.Errorf("device %s hung up", t.device))
			return
		}
		if raise {
			t.line.Raise()
		}
	}
}

func baudToUnix(baud uint32) (uint32, bool) {
	switch baud {
	case 1200:
		return unix.B1200, true
	case 2400:
		return unix.B2400, true
	case 4800:
		return unix.B4800, true
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	default:
		return 0, false
	}
}
