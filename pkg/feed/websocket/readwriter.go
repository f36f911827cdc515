// Package websocket feeds transmitters over websocket connections.
package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/softuart/pkg/framework"
	"github.com/robotalks/softuart/pkg/feed"
	"github.com/robotalks/softuart/pkg/monitor"
	"github.com/robotalks/softuart/pkg/msgs"
)

// ReadWriter implements feed.PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// Dial connects to a websocket server.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Server accepts websocket connections and pumps each into the Sink.
// Every connection also receives WireReports as events.
type Server struct {
	Addr string
	Path string
	Sink *feed.Sink

	pumps pumpSet
}

// NewServer creates a Server.
func NewServer(addr string, sink *feed.Sink) *Server {
	return &Server{Addr: addr, Path: "/tx", Sink: sink}
}

// Handler returns the websocket handler.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		pump := feed.NewPump(New(conn), s.Sink)
		s.pumps.add(pump)
		defer s.pumps.remove(pump)
		glog.V(1).Infof("feed %s connected", conn.Request().RemoteAddr)
		if err := pump.Run(conn.Request().Context()); err != nil {
			glog.V(1).Infof("feed %s closed: %v", conn.Request().RemoteAddr, err)
		}
	})
}

// Report implements monitor.Reporter.
func (s *Server) Report(ctx context.Context, r *msgs.WireReport) error {
	var errs fx.AggregatedError
	for _, p := range s.pumps.list() {
		errs.Add(p.Report(ctx, r))
	}
	return errs.Aggregate()
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Handler())
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket feed on %s%s", ln.Addr(), s.Path)
	server := &http.Server{Handler: mux}
	return fx.RunWithContextCancel(ctx, func() {
		server.Close()
	}, func() error {
		return server.Serve(ln)
	})
}

var _ monitor.Reporter = &Server{}
