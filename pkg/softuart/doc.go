// Package softuart implements a bit-banged asynchronous serial transmitter
// driven by a periodic timer interrupt.
package softuart

// The tick handler (Transmitter.Tick) is called once per bit period by a
// timer armed at the baud rate. Mainline code queues bytes into a bounded
// ring and arms the timer; each tick shifts one bit of the current frame
// onto the output pin, loads the next queued byte when the frame is done,
// and disarms the timer once nothing is left to send.
//
// Only one mainline producer is supported. Every read-modify-write of state
// shared with the tick handler runs with the tick interrupt masked through
// hal.Mask, restoring the previous mask state afterwards.
