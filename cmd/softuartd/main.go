package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/softuart/pkg/framework"

	"github.com/robotalks/softuart/pkg/bench"
	"github.com/robotalks/softuart/pkg/env"
	"github.com/robotalks/softuart/pkg/feed"
	"github.com/robotalks/softuart/pkg/feed/mqtt"
	"github.com/robotalks/softuart/pkg/feed/stream"
	"github.com/robotalks/softuart/pkg/feed/websocket"
	"github.com/robotalks/softuart/pkg/hal/serialpin"
	"github.com/robotalks/softuart/pkg/monitor"
	"github.com/robotalks/softuart/pkg/softuart"
	"github.com/robotalks/softuart/pkg/timing"
)

var (
	wsAddr         = ":8600"
	stdinMode      = "raw"
	serialPort     string
	serialLine     = serialpin.LineDTR
	statusInterval = time.Second
	slowdown       uint
)

func init() {
	softuart.SetupFlags()
	env.SetupFlags()
	flag.StringVar(&wsAddr, "ws", wsAddr, "Websocket feed address, empty to disable.")
	flag.StringVar(&stdinMode, "stdin", stdinMode, "Stdin feed: raw, packet or none.")
	flag.StringVar(&serialPort, "serial", serialPort, "Mirror the line on a modem line of this serial port.")
	flag.Var(&serialLine, "line", "Modem line to drive: dtr or rts.")
	flag.DurationVar(&statusInterval, "status-interval", statusInterval, "Status publish interval.")
	flag.UintVar(&slowdown, "slowdown", slowdown, "Tick slower by this factor, 0 for real time.")
}

func stdinPump(sink *feed.Sink) (*feed.Pump, error) {
	switch stdinMode {
	case "raw":
		return feed.NewRawPump(feed.NewRawReader(os.Stdin), sink), nil
	case "packet":
		return feed.NewPump(stream.NewPair(os.Stdin, os.Stdout), sink), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("invalid stdin mode %q", stdinMode)
}

func publishStatus(a *mqtt.Announcer, sink *feed.Sink) fx.RunFunc {
	return fx.Every(statusInterval, func(context.Context) error {
		if err := a.PublishStatus(sink.Status()); err != nil {
			return fmt.Errorf("publish status: %w", err)
		}
		return nil
	})
}

func run() error {
	uart := softuart.NewConfig()
	conf := env.NewConfig()

	var opts []bench.Option
	if slowdown > 1 {
		opts = append(opts, bench.WithPeriod(timing.BitPeriod(uart.BaudRate)*time.Duration(slowdown)))
	}
	if serialPort != "" {
		port, err := serialpin.Open(serialPort, serialLine)
		if err != nil {
			return err
		}
		defer port.Close()
		opts = append(opts, bench.WithPins(port))
	}
	b, err := bench.New(*uart, opts...)
	if err != nil {
		return err
	}
	glog.Infof("transmitter %s: %d baud, parity %s, %d stop bits",
		conf.ID, uart.BaudRate, uart.Parity, uart.StopBits)

	sink := feed.NewSink(b.Tx)
	runner := fx.NewRunner().FailFast().HandleSignals()
	b.Monitor.AddReporter(monitor.LogReporter{})
	var runners []fx.Runnable

	pump, err := stdinPump(sink)
	if err != nil {
		return err
	}
	if pump != nil {
		b.Monitor.AddReporter(pump)
		// stdin may block forever, it's not waited.
		go pump.Run(runner.Context)
	}

	if wsAddr != "" {
		server := websocket.NewServer(wsAddr, sink)
		b.Monitor.AddReporter(server)
		runners = append(runners, fx.NamedRun("websocket", server))
	}

	announcer, err := conf.NewAnnouncer(uart)
	if err != nil {
		return err
	}
	if announcer != nil {
		b.Monitor.AddReporter(announcer)
		cmds := mqtt.NewPacketReadWriter(announcer.Queue).ForDevice(conf.ID)
		raw := mqtt.NewPacketReadWriter(announcer.Queue).ForRaw(conf.ID)
		runners = append(runners,
			fx.NamedRun("mqtt", announcer),
			fx.NamedRun("mqtt-cmds", cmds),
			fx.NamedRun("mqtt-raw", raw),
			fx.NamedRun("mqtt-cmds-pump", feed.NewPump(cmds, sink)),
			fx.NamedRun("mqtt-raw-pump", feed.NewRawPump(raw, sink)),
			fx.NamedRun("mqtt-status", publishStatus(announcer, sink)),
		)
	}

	return runner.Run(append(runners, fx.NamedRun("bench", b))...)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		glog.Exit(err)
	}
}
