//go:build tinygo && attiny85

// softuart-attiny85 is the firmware: it prints a counter on PB1 at 9600
// baud, 8N2.
//
//	tinygo flash -target=digispark ./cmd/softuart-attiny85
package main

import (
	"machine"
	"time"

	"github.com/robotalks/softuart/pkg/hal"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/timing"
)

const txPin = machine.PB1

func main() {
	conf := softuart.Config{
		BaudRate:   softuart.DefaultBaudRate,
		StopBits:   softuart.DefaultStopBits,
		BufferSize: 16,
	}
	setting, err := timing.Timer1(machine.CPUFrequency(), uint32(conf.BaudRate))
	if err != nil {
		panic(err)
	}
	timer := hal.NewTimer1(setting)
	tx, err := softuart.New(conf, hal.NewMachinePin(txPin), timer, hal.InterruptMask{})
	if err != nil {
		panic(err)
	}
	timer.Attach(tx.Tick)
	tx.Init()

	var line [6]byte
	for n := uint16(0); ; n++ {
		v := n
		for i := 4; i >= 0; i-- {
			line[i] = '0' + byte(v%10)
			v /= 10
		}
		line[5] = '\n'
		tx.PutString(line[:])
		time.Sleep(time.Second)
	}
}
