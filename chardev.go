package serial

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/luhtfiimanal/go-uart/queue"
)

// Wait is the timeout policy of blocking character I/O.
type Wait = queue.Wait

var (
	// NoWait fails at once if the byte cannot be moved.
	NoWait = queue.NoWait
	// Forever waits with no expiry.
	Forever = queue.Forever
)

// Within bounds a wait to d.
func Within(d time.Duration) Wait { return queue.Within(d) }

const (
	// PrintfBufferSize bounds the text a single Printf sends.
	PrintfBufferSize = 256
	// ScanfBufferSize bounds the line a single Scanf parses.
	ScanfBufferSize = 256
)

// CharDev is a byte-at-a-time serial device. GetChar and PutChar report
// false when the wait expired.
type CharDev interface {
	GetChar(w Wait) (byte, bool)
	PutChar(b byte, w Wait) bool
}

// Flusher is implemented by devices that can wait for their output to drain.
type Flusher interface {
	Flush(w Wait) bool
}

// Ready is an advisory flag a device can embed. It has no effect on I/O.
type Ready struct {
	ready atomic.Bool
}

// IsReady reports the flag. It is false until SetReady(true).
func (r *Ready) IsReady() bool { return r.ready.Load() }

// SetReady stores the flag.
func (r *Ready) SetReady(ok bool) { r.ready.Store(ok) }

// Puts writes s followed by "\r\n". It stops at the first byte that cannot
// be written within w and returns false.
func Puts(dev CharDev, s string, w Wait) bool {
	if putString(dev, s, w) != len(s) {
		return false
	}
	return putString(dev, "\r\n", w) == 2
}

func putString(dev CharDev, s string, w Wait) int {
	for i := 0; i < len(s); i++ {
		if !dev.PutChar(s[i], w) {
			return i
		}
	}
	return len(s)
}

// Gets reads a line into buf, stopping at a carriage return, when
// len(buf)-1 bytes are stored, or when a read times out. Line feeds are
// skipped. buf[n] is always set to zero. ok is true only when the line ended
// with a carriage return.
func Gets(dev CharDev, buf []byte, w Wait) (n int, ok bool) {
	if len(buf) == 0 {
		return 0, false
	}
	for n < len(buf)-1 {
		c, got := dev.GetChar(w)
		if !got {
			break
		}
		if c == '\r' {
			ok = true
			break
		}
		if c == '\n' {
			continue
		}
		buf[n] = c
		n++
	}
	buf[n] = 0
	return n, ok
}

// Printf formats into a PrintfBufferSize buffer and sends it with Puts,
// waiting forever for room.
func Printf(dev CharDev, format string, args ...any) int {
	return PrintfWait(dev, Forever, format, args...)
}

// PrintfWait is Printf with a per-byte wait. It returns the formatted length
// when the line went out, and the number of formatted bytes sent when a
// write timed out.
func PrintfWait(dev CharDev, w Wait, format string, args ...any) int {
	s := fmt.Sprintf(format, args...)
	n := len(s)
	if len(s) > PrintfBufferSize {
		s = s[:PrintfBufferSize]
	}
	if sent := putString(dev, s, w); sent != len(s) {
		return sent
	}
	if putString(dev, "\r\n", w) != 2 {
		return len(s)
	}
	return n
}

// Scanf reads one line with Gets, waiting forever, and parses it with
// fmt.Sscanf. It returns the number of fields parsed.
func Scanf(dev CharDev, format string, args ...any) int {
	return ScanfWait(dev, Forever, format, args...)
}

// ScanfWait is Scanf with a per-byte wait. A line cut short by a timeout is
// still parsed, so fewer fields come back.
func ScanfWait(dev CharDev, w Wait, format string, args ...any) int {
	var buf [ScanfBufferSize]byte
	n, _ := Gets(dev, buf[:], w)
	if n == 0 {
		return 0
	}
	parsed, _ := fmt.Sscanf(string(buf[:n]), format, args...)
	return parsed
}

// Flush waits for dev's output to drain if it supports flushing. Devices
// without a Flush are always flushed.
func Flush(dev CharDev, w Wait) bool {
	if f, ok := dev.(Flusher); ok {
		return f.Flush(w)
	}
	return true
}
