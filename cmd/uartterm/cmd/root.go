// Package cmd provides the command-line interface of uartterm.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	serial "github.com/luhtfiimanal/go-uart"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

const envPrefix = "UARTTERM_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uartterm",
	Short: "uartterm moves bytes through an interrupt-driven UART.",
	Long: `uartterm moves bytes through an interrupt-driven UART. ` +
		`It can bridge a terminal to a Linux serial device (term) or exercise the ` +
		`transfer path against a simulated looped-back port (loopback).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
		}
		if err := applyEnv(cmd.Flags()); err != nil {
			return err
		}

		level, _ := cmd.Flags().GetString("log-level")
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
		serial.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "load UARTTERM_* settings from this .env file")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint32("baud", 115200, "baud rate")
	rootCmd.PersistentFlags().Int("rx-queue", serial.DefaultRxQueueSize, "receive queue capacity")
	rootCmd.PersistentFlags().Int("tx-queue", serial.DefaultTxQueueSize, "transmit queue capacity")
	rootCmd.PersistentFlags().Bool("stats", false, "print UART counters as JSON on exit")
}

// applyEnv fills every flag not given on the command line from its
// UARTTERM_* environment variable, e.g. --rx-queue from UARTTERM_RX_QUEUE.
func applyEnv(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "env-file" {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(key); ok {
			if setErr := flags.Set(f.Name, v); setErr != nil {
				err = fmt.Errorf("%s: %w", key, setErr)
			}
		}
	})
	return err
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Cleanup registered with atexit runs on every exit path.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func uartConfig(cmd *cobra.Command) serial.Config {
	baud, _ := cmd.Flags().GetUint32("baud")
	rx, _ := cmd.Flags().GetInt("rx-queue")
	tx, _ := cmd.Flags().GetInt("tx-queue")
	return serial.Config{BaudRate: baud, RxQueueSize: rx, TxQueueSize: tx}
}
