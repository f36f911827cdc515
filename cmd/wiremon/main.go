package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"github.com/robotalks/softuart/pkg/env"
	"github.com/robotalks/softuart/pkg/feed/mqtt"
	"github.com/robotalks/softuart/pkg/msgs"
)

var (
	watchID = "+"
	quiet   bool
)

func init() {
	env.SetupFlags()
	flag.StringVar(&watchID, "watch", watchID, "Device ID to watch, + for all.")
	flag.BoolVar(&quiet, "q", quiet, "Only print decoded bytes.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := env.NewConfig().NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.ConnectWait(); err != nil {
		log.Fatalln(err)
	}

	metas, err := mqtt.Discover(context.Background(), q, mqtt.DefaultDiscoverTimeout)
	if err != nil {
		log.Fatalln(err)
	}
	for _, m := range metas {
		log.Printf("%s: %d baud, parity %s, %d stop bits, buffer %d",
			m.ID, m.BaudRate, m.Parity, m.StopBits, m.BufferSize)
	}

	mqtt.Watch(q, watchID, func(id string, r *msgs.WireReport) {
		if quiet {
			if len(r.Data) > 0 {
				log.Printf("%s: %s", id, strconv.Quote(string(r.Data)))
			}
			return
		}
		log.Printf("%s: %s (frames=%d framing_errors=%d parity_errors=%d ticks=%d)",
			id, strconv.Quote(string(r.Data)), r.Frames, r.FramingErrors, r.ParityErrors, r.Ticks)
	})
	<-(chan struct{})(nil)
}
