// Package sh provides the interactive soft UART shell.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/softuart/pkg/bench"
	"github.com/robotalks/softuart/pkg/env"
	"github.com/robotalks/softuart/pkg/feed"
	"github.com/robotalks/softuart/pkg/feed/mqtt"
	"github.com/robotalks/softuart/pkg/msgs"
	"github.com/robotalks/softuart/pkg/softuart"
)

// CommandTimeout bounds a remote command.
const CommandTimeout = time.Second

// Target is where the shell sends bytes.
type Target interface {
	Write(data []byte, nonBlocking bool) (*msgs.WriteResult, error)
	Status() (*msgs.StatusPb, error)
}

// Shell provides ishell backed interactive shell.
// Commands drive a local simulated bench until connected to a daemon.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	UART   *softuart.Config
	Bench  *bench.Bench
	Remote *Remote

	sink *feed.Sink
}

// Remote is a connection to a daemon over MQTT.
type Remote struct {
	ID     string
	Cancel func()
	Queue  *mqtt.Queue
	Client *feed.Client
}

const (
	shellKey    = "$shell"
	localPrompt = "[local] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell with a local bench.
func New(conf *env.Config, uart *softuart.Config) (*Shell, error) {
	b, err := bench.New(*uart)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		UART:   uart,
		Bench:  b,
		sink:   feed.NewSink(b.Tx),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(localPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeLocal wraps command func requires the local bench.
func MustBeLocal(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Remote != nil {
			c.Err(fmt.Errorf("only available on the local bench, disconnect first"))
			return
		}
		fn(c)
	}
}

// Target returns the remote daemon if connected, or the local bench.
func (s *Shell) Target() Target {
	if s.Remote != nil {
		return s.Remote
	}
	return localTarget{b: s.Bench, sink: s.sink}
}

// Print prints v as JSON or with format.
func (s *Shell) Print(c *ishell.Context, v interface{}, format string, args ...interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Printf(format+"\n", args...)
}

// Discover lists daemons on the broker.
func (s *Shell) Discover() ([]mqtt.DeviceMeta, error) {
	q, err := s.Config.NewQueue()
	if err != nil {
		return nil, err
	}
	if err := q.ConnectWait(); err != nil {
		return nil, err
	}
	defer q.Close()
	return mqtt.Discover(context.TODO(), q, mqtt.DefaultDiscoverTimeout)
}

// Connect connects a daemon by ID.
func (s *Shell) Connect(id string) error {
	q, err := s.Config.NewQueue()
	if err != nil {
		return err
	}
	remote := &Remote{ID: id, Queue: q}
	rw := mqtt.NewPacketReadWriter(q).ForClient(id)
	remote.Client = feed.NewClient(rw)
	if err := q.ConnectWait(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	remote.Cancel = func() {
		cancel()
		q.Close()
	}
	go rw.Run(ctx)
	go remote.Client.Run(ctx)
	s.Disconnect()
	s.Remote = remote
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", id))
	return nil
}

// Disconnect returns to the local bench.
func (s *Shell) Disconnect() {
	if s.Remote != nil {
		s.Remote.Cancel()
		s.Remote = nil
		s.Shell.SetPrompt(localPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Write implements Target.
func (r *Remote) Write(data []byte, nonBlocking bool) (*msgs.WriteResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	return r.Client.Write(ctx, data, nonBlocking)
}

// Status implements Target.
func (r *Remote) Status() (*msgs.StatusPb, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	st, err := r.Client.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &st.StatusPb, nil
}

type localTarget struct {
	b    *bench.Bench
	sink *feed.Sink
}

// Write ticks the bench while the queue is full in blocking mode, as a
// running timer would.
func (t localTarget) Write(data []byte, nonBlocking bool) (*msgs.WriteResult, error) {
	if nonBlocking {
		return t.sink.Handle(msgs.NewWriteRequest(data, true)), nil
	}
	t.b.Feed(data)
	var res msgs.WriteResult
	res.Queued = uint32(len(data))
	return &res, nil
}

func (t localTarget) Status() (*msgs.StatusPb, error) {
	st := t.sink.Status()
	return &st, nil
}

var (
	// DiscoverCmd discovers daemons.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			metas, err := s.Discover()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				s.Print(c, metas, "")
				return
			}
			if len(metas) == 0 {
				c.Println("No transmitters found")
				return
			}
			for _, m := range metas {
				c.Printf("%s: %d baud, parity %s, %d stop bits, buffer %d\n",
					m.ID, m.BaudRate, m.Parity, m.StopBits, m.BufferSize)
			}
		},
	}

	// ConnectCmd connects a daemon.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "ID",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) > 0 {
				id = c.Args[0]
			} else {
				metas, err := s.Discover()
				if err != nil {
					c.Err(err)
					return
				}
				switch {
				case len(metas) == 0:
					c.Err(fmt.Errorf("no transmitter discovered"))
					return
				case len(metas) == 1:
					id = metas[0].ID
				case !s.Interactive:
					c.Err(fmt.Errorf("more than 1 transmitters discovered in non-interactive mode"))
					return
				default:
					items := make([]string, len(metas))
					for n, m := range metas {
						items[n] = m.ID
					}
					id = metas[s.Shell.MultiChoice(items, "Which one to connect?")].ID
				}
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current daemon.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(env.NewConfig(), softuart.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
