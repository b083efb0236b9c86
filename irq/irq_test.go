package irq

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Controller", func() {
	var ctrl *Controller

	BeforeEach(func() {
		ctrl = NewController()
	})

	AfterEach(func() {
		ctrl.Stop()
	})

	It("should run the handler of a raised line", func() {
		var calls atomic.Int32
		Expect(ctrl.Register(3, func() { calls.Add(1) })).To(Succeed())

		ctrl.Line(3).Raise()

		Eventually(calls.Load).Should(Equal(int32(1)))
		Expect(ctrl.Line(3).Number()).To(Equal(Number(3)))
	})

	It("should reject a second handler on the same line", func() {
		Expect(ctrl.Register(1, func() {})).To(Succeed())
		Expect(ctrl.Register(1, func() {})).To(MatchError(ErrLineInUse))
	})

	It("should reject lines out of range", func() {
		Expect(ctrl.Register(-1, func() {})).To(MatchError(ErrInvalidLine))
		Expect(ctrl.Register(MaxLines, func() {})).To(MatchError(ErrInvalidLine))
	})

	It("should allow a line to be reused after unregistering", func() {
		Expect(ctrl.Register(2, func() {})).To(Succeed())
		ctrl.Unregister(2)
		Expect(ctrl.Register(2, func() {})).To(Succeed())
	})

	It("should count raises without a handler as spurious", func() {
		ctrl.Raise(9)
		Eventually(ctrl.Spurious).Should(Equal(uint64(1)))
	})

	It("should never run two handlers at once", func() {
		var running, overlap, total atomic.Int32
		h := func() {
			if running.Add(1) > 1 {
				overlap.Add(1)
			}
			time.Sleep(100 * time.Microsecond)
			running.Add(-1)
			total.Add(1)
		}
		Expect(ctrl.Register(0, h)).To(Succeed())
		Expect(ctrl.Register(1, h)).To(Succeed())

		for i := 0; i < 50; i++ {
			go ctrl.Line(0).Raise()
			go ctrl.Line(1).Raise()
		}

		Eventually(total.Load).Should(BeNumerically(">=", 2))
		Consistently(overlap.Load, 50*time.Millisecond).Should(BeZero())
	})

	It("should let a handler raise its own line again", func() {
		var calls atomic.Int32
		Expect(ctrl.Register(4, func() {
			if calls.Add(1) < 3 {
				ctrl.Raise(4)
			}
		})).To(Succeed())

		ctrl.Raise(4)

		Eventually(calls.Load).Should(Equal(int32(3)))
	})

	It("should refuse registration after stop", func() {
		ctrl.Stop()
		Expect(ctrl.Register(5, func() {})).To(MatchError(ErrStopped))
	})

	It("should ignore a zero line", func() {
		var l Line
		Expect(l.Raise).NotTo(Panic())
	})
})

var _ = Describe("Cause", func() {
	It("should name its bits", func() {
		Expect(RxReady.String()).To(Equal("rx"))
		Expect(TxReady.String()).To(Equal("tx"))
		Expect((RxReady | TxReady).String()).To(Equal("rx|tx"))
		Expect(Cause(0).String()).To(Equal("none"))
	})
})
