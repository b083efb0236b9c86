package queue

import (
	"fmt"
	"time"
)

type waitKind uint8

const (
	waitNone waitKind = iota
	waitBounded
	waitForever
)

// Wait is the policy a blocking queue operation follows when it cannot
// complete immediately: give up at once, wait up to a duration, or wait
// with no expiry. The zero value is NoWait.
type Wait struct {
	kind waitKind
	d    time.Duration
}

var (
	// NoWait fails immediately when the operation cannot complete.
	NoWait = Wait{kind: waitNone}
	// Forever waits until the operation completes.
	Forever = Wait{kind: waitForever}
)

// Within waits at most d. A non-positive d is the same as NoWait.
func Within(d time.Duration) Wait {
	if d <= 0 {
		return NoWait
	}
	return Wait{kind: waitBounded, d: d}
}

// IsForever reports whether w never expires.
func (w Wait) IsForever() bool { return w.kind == waitForever }

// Duration returns the bound of a bounded wait, zero for NoWait and -1 for
// Forever.
func (w Wait) Duration() time.Duration {
	switch w.kind {
	case waitBounded:
		return w.d
	case waitForever:
		return -1
	default:
		return 0
	}
}

func (w Wait) String() string {
	switch w.kind {
	case waitBounded:
		return fmt.Sprintf("within(%s)", w.d)
	case waitForever:
		return "forever"
	default:
		return "nowait"
	}
}
