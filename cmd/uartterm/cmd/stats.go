package cmd

import (
	"io"

	serial "github.com/luhtfiimanal/go-uart"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

func writeStats(w io.Writer, s serial.Stats) error {
	b, err := sonnet.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// maybeStats prints the counters when --stats is set.
func maybeStats(cmd *cobra.Command, u *serial.UART) error {
	if on, _ := cmd.Flags().GetBool("stats"); !on {
		return nil
	}
	return writeStats(cmd.OutOrStdout(), u.Stats())
}
