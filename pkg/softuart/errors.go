package softuart

import "errors"

var (
	// ErrBusy indicates the queue has not enough free slots for a
	// non-blocking request. Nothing was queued.
	ErrBusy = errors.New("busy")
)
