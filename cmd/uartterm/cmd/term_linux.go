//go:build linux

package cmd

import (
	"bufio"
	"fmt"
	"time"

	serial "github.com/luhtfiimanal/go-uart"
	"github.com/luhtfiimanal/go-uart/irq"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Bridge stdin and stdout to a serial device",
	Long: `Bridge stdin and stdout to a serial device. Every input line is sent ` +
		`followed by CR LF; received bytes are printed as they arrive.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, _ := cmd.Flags().GetString("device")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctrl := irq.NewController()
		tty, err := serial.OpenTTY(device, ctrl.Line(0))
		if err != nil {
			ctrl.Stop()
			return err
		}
		atexit.Register(func() {
			tty.Close()
			ctrl.Stop()
		})

		reg := serial.NewRegistry(ctrl, serial.TTYClock)
		if err := reg.Attach("tty", tty); err != nil {
			return err
		}
		u, err := reg.UART("tty")
		if err != nil {
			return err
		}
		if err := u.Init(uartConfig(cmd)); err != nil {
			return err
		}
		u.SetReady(true)

		out := cmd.OutOrStdout()
		go func() {
			for {
				if b, ok := u.GetChar(serial.Forever); ok {
					out.Write([]byte{b})
				}
			}
		}()

		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			if !serial.Puts(u, sc.Text(), serial.Within(timeout)) {
				return fmt.Errorf("write to %s timed out", device)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
		serial.Flush(u, serial.Within(timeout))
		if err := tty.Err(); err != nil {
			return err
		}
		return maybeStats(cmd, u)
	},
}

func init() {
	termCmd.Flags().StringP("device", "d", "/dev/ttyUSB0", "serial device")
	termCmd.Flags().Duration("timeout", 2*time.Second, "per-byte write wait")
	rootCmd.AddCommand(termCmd)
}
