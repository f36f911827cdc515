package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrParity indicates the parity bit doesn't match the data bits.
	ErrParity = errors.New("parity error")
	// ErrFraming indicates the stop bit is not at mark level.
	ErrFraming = errors.New("framing error")
)

// FrameError wraps a bad frame with the data bits sampled.
type FrameError struct {
	Byte byte
	Err  error
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("%v: 0x%02x", e.Err, e.Byte)
}

// Unwrap returns ErrParity or ErrFraming.
func (e *FrameError) Unwrap() error {
	return e.Err
}
