//go:build tinygo && attiny85

package hal

import (
	"device/avr"
	"runtime/interrupt"

	"github.com/robotalks/softuart/pkg/timing"
)

var timer1Handler func()

func timer1CompareA(interrupt.Interrupt) {
	if timer1Handler != nil {
		timer1Handler()
	}
}

// Timer1 is the ATtiny85 Timer1 in CTC mode, ticking on compare match A.
// There is only one, so all values share the hardware.
type Timer1 struct{}

// NewTimer1 programs Timer1 with s and leaves it disarmed.
func NewTimer1(s timing.Setting) Timer1 {
	avr.TIMSK.ClearBits(avr.TIMSK_OCIE1A)
	avr.TCCR1.Set(avr.TCCR1_CTC1 | s.ClockSelect)
	avr.OCR1A.Set(s.Compare)
	avr.OCR1C.Set(s.Compare)
	interrupt.New(avr.IRQ_TIMER1_COMPA, timer1CompareA)
	return Timer1{}
}

// Attach installs the tick handler.
func (Timer1) Attach(handler func()) {
	timer1Handler = handler
}

// Enable implements TickSource.
func (Timer1) Enable() {
	avr.TIMSK.SetBits(avr.TIMSK_OCIE1A)
}

// Disable implements TickSource.
func (Timer1) Disable() {
	avr.TIMSK.ClearBits(avr.TIMSK_OCIE1A)
}

// Enabled implements TickSource.
func (Timer1) Enabled() bool {
	return avr.TIMSK.HasBits(avr.TIMSK_OCIE1A)
}

// ClearPending implements TickSource. The flag clears by writing one.
func (Timer1) ClearPending() {
	avr.TIFR.Set(avr.TIFR_OCF1A)
}
