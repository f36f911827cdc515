package feed

import "errors"

var (
	// ErrNoReply indicates no reply received from peer.
	// This happens when a reply is received for a latter command, and all
	// previous commands fail with this error.
	ErrNoReply = errors.New("no reply")
	// ErrClosed indicates the client stopped before a reply arrived.
	ErrClosed = errors.New("client closed")
)
