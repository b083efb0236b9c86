package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/luhtfiimanal/go-uart/irq"
	"github.com/stretchr/testify/require"
)

func newPort(t *testing.T, opts ...Option) (*Port, *atomic.Int32) {
	ctrl := irq.NewController()
	t.Cleanup(ctrl.Stop)

	var raised atomic.Int32
	require.NoError(t, ctrl.Register(7, func() { raised.Add(1) }))
	return New(ctrl.Line(7), opts...), &raised
}

func TestPort_PendingFollowsEnable(t *testing.T) {
	p, _ := newPort(t)
	require.Equal(t, irq.Number(7), p.IRQ())
	require.Equal(t, irq.Cause(0), p.Pending())

	p.EnableIRQ(irq.TxReady)
	require.Equal(t, irq.TxReady, p.Pending())

	p.SetStalled(true)
	require.Equal(t, irq.Cause(0), p.Pending())

	p.DisableIRQ(irq.TxReady)
	p.SetStalled(false)
	require.Equal(t, irq.Cause(0), p.Pending())
}

func TestPort_InjectRaisesWhenEnabled(t *testing.T) {
	p, raised := newPort(t)

	p.Inject('a')
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), raised.Load(), "rx interrupt is masked")

	p.EnableIRQ(irq.RxReady)
	require.Eventually(t, func() bool { return raised.Load() >= 1 }, time.Second, time.Millisecond)
	require.Equal(t, irq.RxReady, p.Pending())
	require.Equal(t, byte('a'), p.ReadData())
	require.Equal(t, byte(0), p.ReadData())
}

func TestPort_Loopback(t *testing.T) {
	p, _ := newPort(t, WithLoopback(), WithFIFODepth(2))
	p.WriteData('x')
	p.WriteData('y')
	p.WriteData('z')

	require.Equal(t, []byte("xyz"), p.Output())
	require.Equal(t, uint64(1), p.Overruns())
	require.Equal(t, byte('x'), p.ReadData())
	require.Equal(t, byte('y'), p.ReadData())
}

func TestPort_WaitOutputTimesOut(t *testing.T) {
	p, _ := newPort(t)
	p.WriteData('q')

	start := time.Now()
	out := p.WaitOutput(2, 30*time.Millisecond)
	require.Equal(t, []byte("q"), out)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPort_SetDivisor(t *testing.T) {
	p, _ := newPort(t)
	require.ErrorIs(t, p.SetDivisor(0), ErrZeroDivisor)
	require.NoError(t, p.SetDivisor(12))
	require.Equal(t, uint16(12), p.Divisor())
}
