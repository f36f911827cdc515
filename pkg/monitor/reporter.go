package monitor

import (
	"context"
	"io"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/softuart/pkg/msgs"
)

// LogReporter logs reports with glog.
type LogReporter struct{}

// Report implements Reporter.
func (LogReporter) Report(_ context.Context, r *msgs.WireReport) error {
	glog.Infof("wire: %d frames, %d framing errors, %d parity errors in %d ticks: %s",
		r.Frames, r.FramingErrors, r.ParityErrors, r.Ticks, strconv.Quote(string(r.Data)))
	return nil
}

// WriterReporter copies decoded bytes to W.
type WriterReporter struct {
	W io.Writer
}

// Report implements Reporter.
func (w *WriterReporter) Report(_ context.Context, r *msgs.WireReport) error {
	if len(r.Data) == 0 {
		return nil
	}
	_, err := w.W.Write(r.Data)
	return err
}
