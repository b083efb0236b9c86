package serial

import "errors"

var (
	// ErrAlreadyInitialized is returned by a second Init on the same UART.
	ErrAlreadyInitialized = errors.New("uart already initialized")

	// ErrNoPort indicates a UART or registry entry without hardware behind it.
	ErrNoPort = errors.New("no port")

	// ErrBaudRate indicates a baud rate the port clock cannot produce.
	ErrBaudRate = errors.New("unsupported baud rate")

	// ErrUnknownPort is returned by Registry.UART for a name never attached.
	ErrUnknownPort = errors.New("unknown port")

	// ErrPortAttached indicates a name or port already known to a registry.
	ErrPortAttached = errors.New("port already attached")

	// ErrClosed is returned by operations on a closed tty.
	ErrClosed = errors.New("port closed")
)
