// Package tx adds transmitter commands to the shell.
package tx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/softuart/pkg/bench"
	"github.com/robotalks/softuart/pkg/cli/sh"
	"github.com/robotalks/softuart/pkg/timing"
	"github.com/robotalks/softuart/pkg/wire"
)

// ParseBytes parses numbers (65, 0x41, 0b1000001) or quoted
// characters ('A') into bytes.
func ParseBytes(args []string) ([]byte, error) {
	out := make([]byte, 0, len(args))
	for _, arg := range args {
		if len(arg) == 3 && arg[0] == '\'' && arg[2] == '\'' {
			out = append(out, arg[1])
			continue
		}
		val, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q", arg)
		}
		out = append(out, byte(val))
	}
	return out, nil
}

// Waveform renders samples, mark as '-' and space as '_'.
func Waveform(samples []bool) string {
	var sb strings.Builder
	for _, level := range samples {
		if level {
			sb.WriteByte('-')
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func write(c *ishell.Context, data []byte, nonBlocking bool) {
	s := sh.ShellFrom(c)
	res, err := s.Target().Write(data, nonBlocking)
	if err != nil {
		c.Err(err)
		return
	}
	if res.Busy {
		s.Print(c, res, "BUSY")
		return
	}
	s.Print(c, res, "OK %d", res.Queued)
}

func intArg(c *ishell.Context, def int) (int, error) {
	if len(c.Args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", c.Args[0])
	}
	return n, nil
}

var (
	// PutCmd queues bytes, waiting for room.
	PutCmd = ishell.Cmd{
		Name: "put",
		Help: "BYTE...",
		Func: func(c *ishell.Context) {
			data, err := ParseBytes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			write(c, data, false)
		},
	}

	// TryPutCmd queues bytes or fails with BUSY.
	TryPutCmd = ishell.Cmd{
		Name: "tryput",
		Help: "BYTE...",
		Func: func(c *ishell.Context) {
			data, err := ParseBytes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			write(c, data, true)
		},
	}

	// PutsCmd queues text, waiting for room.
	PutsCmd = ishell.Cmd{
		Name: "puts",
		Help: "TEXT",
		Func: func(c *ishell.Context) {
			write(c, []byte(strings.Join(c.Args, " ")), false)
		},
	}

	// TryPutsCmd queues all text or fails with BUSY.
	TryPutsCmd = ishell.Cmd{
		Name: "tryputs",
		Help: "TEXT",
		Func: func(c *ishell.Context) {
			write(c, []byte(strings.Join(c.Args, " ")), true)
		},
	}

	// StatusCmd shows the transmitter status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			st, err := s.Target().Status()
			if err != nil {
				c.Err(err)
				return
			}
			state := "idle"
			if st.Sending {
				state = "sending"
			}
			s.Print(c, st, "queued %d/%d, %s, armed=%v", st.Queued, st.Capacity, state, st.Armed)
		},
	}

	// TickCmd delivers ticks to the local bench.
	TickCmd = ishell.Cmd{
		Name:    "tick",
		Aliases: []string{"t"},
		Help:    "[N]",
		Func: sh.MustBeLocal(func(c *ishell.Context) {
			n, err := intArg(c, 1)
			if err != nil {
				c.Err(err)
				return
			}
			s := sh.ShellFrom(c)
			s.Bench.Step(n)
			c.Println(Waveform(lastSamples(s.Bench, n)))
		}),
	}

	// DrainCmd ticks the local bench until idle.
	DrainCmd = ishell.Cmd{
		Name: "drain",
		Help: "[MAX-TICKS]",
		Func: sh.MustBeLocal(func(c *ishell.Context) {
			max, err := intArg(c, 100000)
			if err != nil {
				c.Err(err)
				return
			}
			n, err := sh.ShellFrom(c).Bench.StepUntilIdle(max)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d ticks\n", n)
		}),
	}

	// WireCmd shows the recent line samples of the local bench.
	WireCmd = ishell.Cmd{
		Name:    "wire",
		Aliases: []string{"w"},
		Help:    "[N]",
		Func: sh.MustBeLocal(func(c *ishell.Context) {
			n, err := intArg(c, 80)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(Waveform(lastSamples(sh.ShellFrom(c).Bench, n)))
		}),
	}

	// RecvCmd shows what the line monitor decoded on the local bench.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "",
		Func: sh.MustBeLocal(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			data := s.Bench.Received()
			st := s.Bench.Monitor.Stats()
			s.Print(c, map[string]interface{}{"data": data, "stats": st},
				"%q (line %s, %d frames, %d framing errors, %d parity errors)",
				data, s.Bench.Monitor.State(), st.Frames, st.FramingErrors, st.ParityErrors)
		}),
	}

	// TimingCmd computes Timer1 settings.
	TimingCmd = ishell.Cmd{
		Name: "timing",
		Help: "CPU-HZ [BAUD]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("CPU-HZ required"))
				return
			}
			cpuHz, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil {
				c.Err(fmt.Errorf("invalid CPU-HZ: %v", err))
				return
			}
			s := sh.ShellFrom(c)
			baud := uint64(s.UART.BaudRate)
			if len(c.Args) > 1 {
				if baud, err = strconv.ParseUint(c.Args[1], 0, 32); err != nil {
					c.Err(fmt.Errorf("invalid BAUD: %v", err))
					return
				}
			}
			setting, err := timing.Timer1(uint32(cpuHz), uint32(baud))
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, setting, "%s, error %.2f%%", setting, setting.Error(uint32(baud))*100)
		},
	}

	// DecodeCmd decodes a waveform typed as '-' and '_'.
	DecodeCmd = ishell.Cmd{
		Name: "decode",
		Help: "WAVEFORM",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			var samples []bool
			for _, r := range strings.Join(c.Args, "") {
				samples = append(samples, r != '_' && r != '0')
			}
			data, err := wire.Decode(s.UART.Parity, samples)
			if err != nil {
				c.Err(err)
			}
			s.Print(c, data, "%q", data)
		},
	}
)

func lastSamples(b *bench.Bench, n int) []bool {
	samples := b.Samples()
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	return samples
}

func init() {
	sh.AddCmds(
		&PutCmd,
		&TryPutCmd,
		&PutsCmd,
		&TryPutsCmd,
		&StatusCmd,
		&TickCmd,
		&DrainCmd,
		&WireCmd,
		&RecvCmd,
		&TimingCmd,
		&DecodeCmd,
	)
}
