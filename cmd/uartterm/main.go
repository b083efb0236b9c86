// Command uartterm drives the interrupt-driven serial stack from a shell.
package main

import "github.com/luhtfiimanal/go-uart/cmd/uartterm/cmd"

func main() {
	cmd.Execute()
}
