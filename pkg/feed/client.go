package feed

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/softuart/pkg/framework"
	"github.com/robotalks/softuart/pkg/msgs"
)

// Result is the result of a command using Do.
type Result struct {
	Err error
	Msg fx.Message
}

// Command represents a pending command waiting for reply.
type Command struct {
	seq      uint32
	resultCh chan Result
	next     *Command
}

// Sequence returns the request sequence.
func (c *Command) Sequence() uint32 {
	return c.seq
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// Client sends commands to a Pump on the other side of a PacketReadWriter
// and matches replies. The Pump replies in order, so a reply also fails
// every older command still pending.
type Client struct {
	ReadWriter PacketReadWriter

	eventCh  chan fx.Message
	seq      uint32
	cmdsHead *Command
	cmdsTail *Command
	cmdsLock sync.Mutex
}

// NewClient creates a Client.
func NewClient(rw PacketReadWriter) *Client {
	return &Client{ReadWriter: rw, eventCh: make(chan fx.Message, 16)}
}

// EventChan retrieves the event reporting chan. Events are dropped when
// nobody reads.
func (c *Client) EventChan() <-chan fx.Message {
	return c.eventCh
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(msg fx.Message) *Command {
	cmd := &Command{resultCh: make(chan Result, 1)}

	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	c.seq++
	cmd.seq = c.seq
	pkt, err := msgs.Encode(msg, cmd.seq)
	if err == nil {
		err = c.ReadWriter.WritePacket(pkt)
	}
	if err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	if c.cmdsHead == nil {
		c.cmdsHead = cmd
	} else {
		c.cmdsTail.next = cmd
	}
	c.cmdsTail = cmd
	return cmd
}

// Call sends a command and waits for the reply.
func (c *Client) Call(ctx context.Context, msg fx.Message) (fx.Message, error) {
	cmd := c.Do(msg)
	select {
	case res := <-cmd.ResultChan():
		return res.Msg, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Write asks the peer to transmit data.
func (c *Client) Write(ctx context.Context, data []byte, nonBlocking bool) (*msgs.WriteResult, error) {
	reply, err := c.Call(ctx, msgs.NewWriteRequest(data, nonBlocking))
	if err != nil {
		return nil, err
	}
	res, ok := reply.(*msgs.WriteResult)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", reply)
	}
	return res, nil
}

// Status queries the peer status.
func (c *Client) Status(ctx context.Context) (*msgs.Status, error) {
	reply, err := c.Call(ctx, &msgs.StatusQuery{})
	if err != nil {
		return nil, err
	}
	st, ok := reply.(*msgs.Status)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T", reply)
	}
	return st, nil
}

// Run implements Runnable.
func (c *Client) Run(ctx context.Context) error {
	defer c.failAll(ErrClosed)
	for {
		pkt, err := c.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		msg, typed, err := msgs.Decode(pkt)
		if err != nil {
			glog.Warningf("drop packet: %v", err)
			continue
		}
		switch {
		case typed.IsEvent():
			select {
			case c.eventCh <- msg:
			default:
			}
		case typed.IsReply():
			c.handleReply(typed.Sequence, msg)
		}
	}
}

func (c *Client) handleReply(seq uint32, msg fx.Message) {
	c.cmdsLock.Lock()
	head := c.cmdsHead
	curr := c.cmdsHead
	for ; curr != nil; curr = curr.next {
		if curr.seq == seq {
			if c.cmdsHead = curr.next; c.cmdsHead == nil {
				c.cmdsTail = nil
			}
			curr.next = nil
			break
		}
	}
	c.cmdsLock.Unlock()
	if curr == nil {
		return
	}
	for ; head != curr; head = head.next {
		head.resultCh <- Result{Err: ErrNoReply}
	}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		curr.resultCh <- Result{Err: cmdErr}
	} else {
		curr.resultCh <- Result{Msg: msg}
	}
}

func (c *Client) failAll(err error) {
	c.cmdsLock.Lock()
	head := c.cmdsHead
	c.cmdsHead, c.cmdsTail = nil, nil
	c.cmdsLock.Unlock()
	for ; head != nil; head = head.next {
		head.resultCh <- Result{Err: err}
	}
}
