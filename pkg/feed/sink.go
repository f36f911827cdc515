package feed

import (
	"sync"

	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/softuart"
)

// Sink serializes producers onto one Transmitter, which supports a
// single producer only. A string from one producer is never interleaved
// with another's.
type Sink struct {
	Tx Transmitter

	lock sync.Mutex
}

// NewSink creates a Sink.
func NewSink(tx Transmitter) *Sink {
	return &Sink{Tx: tx}
}

// Write implements io.Writer, waiting for room in the queue.
func (s *Sink) Write(p []byte) (int, error) {
	s.lock.Lock()
	s.Tx.PutString(p)
	s.lock.Unlock()
	return len(p), nil
}

// TryWrite queues all of p or returns softuart.ErrBusy.
func (s *Sink) TryWrite(p []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.Tx.TryPutString(p)
}

// Handle executes a WriteRequest.
func (s *Sink) Handle(req *msgs.WriteRequest) *msgs.WriteResult {
	var res msgs.WriteResult
	if req.NonBlocking {
		if err := s.TryWrite(req.Data); err != nil {
			res.Busy, res.Message = err == softuart.ErrBusy, err.Error()
			return &res
		}
	} else {
		s.Write(req.Data)
	}
	res.Queued = uint32(len(req.Data))
	return &res
}

// Status returns the transmitter status as a message. It masks ticks
// like a producer does, so it waits for a Write in progress.
func (s *Sink) Status() msgs.StatusPb {
	s.lock.Lock()
	st := s.Tx.Status()
	s.lock.Unlock()
	return msgs.StatusPb{
		Queued:   uint32(st.Queued),
		Capacity: uint32(st.Capacity),
		Sending:  st.State == softuart.StateSending,
		Armed:    st.Armed,
	}
}
