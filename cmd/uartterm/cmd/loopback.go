package cmd

import (
	"fmt"
	"time"

	serial "github.com/luhtfiimanal/go-uart"
	"github.com/luhtfiimanal/go-uart/irq"
	"github.com/luhtfiimanal/go-uart/sim"
	"github.com/spf13/cobra"
)

const simClock = 1843200

var loopbackCmd = &cobra.Command{
	Use:   "loopback",
	Short: "Send formatted lines through a simulated looped-back UART and read them back",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, _ := cmd.Flags().GetInt("lines")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctrl := irq.NewController()
		defer ctrl.Stop()

		u, err := openLoopback(ctrl, uartConfig(cmd))
		if err != nil {
			return err
		}
		if err := runLoopback(cmd, u, lines, serial.Within(timeout)); err != nil {
			return err
		}
		return maybeStats(cmd, u)
	},
}

func init() {
	loopbackCmd.Flags().IntP("lines", "n", 10, "number of lines to send")
	loopbackCmd.Flags().Duration("timeout", time.Second, "per-byte wait")
	rootCmd.AddCommand(loopbackCmd)
}

// openLoopback binds a looped-back simulated port on ctrl line 0 and returns
// its initialized UART.
func openLoopback(ctrl *irq.Controller, cfg serial.Config) (*serial.UART, error) {
	reg := serial.NewRegistry(ctrl, simClock)
	if err := reg.Attach("sim0", sim.New(ctrl.Line(0), sim.WithLoopback())); err != nil {
		return nil, err
	}
	u, err := reg.UART("sim0")
	if err != nil {
		return nil, err
	}
	if err := u.Init(cfg); err != nil {
		return nil, err
	}
	u.SetReady(true)
	return u, nil
}

func runLoopback(cmd *cobra.Command, u *serial.UART, lines int, w serial.Wait) error {
	out := cmd.OutOrStdout()
	for i := 0; i < lines; i++ {
		if n := serial.PrintfWait(u, w, "seq %d %s", i, u.Name()); n == 0 {
			return fmt.Errorf("line %d: write timed out", i)
		}

		var (
			seq  int
			name string
		)
		if got := serial.ScanfWait(u, w, "seq %d %s", &seq, &name); got != 2 {
			return fmt.Errorf("line %d: parsed %d of 2 fields", i, got)
		}
		if seq != i || name != u.Name() {
			return fmt.Errorf("line %d: read back seq %d name %q", i, seq, name)
		}
		fmt.Fprintf(out, "line %d ok\n", i)
	}
	return nil
}
