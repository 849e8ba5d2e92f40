package msp

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// Result is the result of a command using Do.
type Result struct {
	Err    error
	Packet *Packet
}

// Client provides request/reply operations over a Link.
// Replies are matched to pending commands by code in sending order.
type Client struct {
	link        *Link
	unsolicited chan *Packet
	cmdsHead    *Command
	cmdsTail    *Command
	cmdsLock    sync.Mutex
}

// Command represents a pending command waiting for reply.
type Command struct {
	code     byte
	resultCh chan Result
	next     *Command
}

// Code returns the request code.
func (c *Command) Code() byte {
	return c.code
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// NewClient creates client and wraps the link.
func NewClient(link *Link) *Client {
	c := &Client{
		link:        link,
		unsolicited: make(chan *Packet, 16),
	}
	c.link.Handler = c
	return c
}

// Link gets wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// Unsolicited retrieves packets not matching any pending command.
func (c *Client) Unsolicited() <-chan *Packet {
	return c.unsolicited
}

// Send sends a request without waiting for reply.
func (c *Client) Send(code byte, data []byte) error {
	return c.link.Send(NewRequest(code, data))
}

// Start sends a request and returns a Command for result.
func (c *Client) Start(code byte, data []byte) *Command {
	cmd := &Command{code: code, resultCh: make(chan Result, 1)}

	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	if err := c.link.Send(NewRequest(code, data)); err != nil {
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

// Do sends a request and waits for the reply.
func (c *Client) Do(ctx context.Context, code byte, data []byte) (*Packet, error) {
	cmd := c.Start(code, data)
	select {
	case res := <-cmd.resultCh:
		return res.Packet, res.Err
	case <-ctx.Done():
		c.Cancel(cmd)
		return nil, ctx.Err()
	}
}

// Cancel removes a pending command. It's a no-op if already replied.
func (c *Client) Cancel(cmd *Command) {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var prev *Command
	for curr := c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr != cmd {
			continue
		}
		c.unlink(prev, curr)
		return
	}
}

// HandlePacket implements PacketHandler.
func (c *Client) HandlePacket(ctx context.Context, pkt *Packet) {
	if pkt.Direction == ToFlightController {
		c.forward(pkt)
		return
	}
	c.cmdsLock.Lock()
	var prev, curr *Command
	for curr = c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr.code == pkt.Code {
			c.unlink(prev, curr)
			break
		}
	}
	c.cmdsLock.Unlock()
	if curr == nil {
		c.forward(pkt)
		return
	}
	if pkt.Direction == Unsupported {
		curr.resultCh <- Result{Err: &CommandError{Code: pkt.Code}}
	} else {
		curr.resultCh <- Result{Packet: pkt}
	}
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

func (c *Client) unlink(prev, curr *Command) {
	if prev == nil {
		c.cmdsHead = curr.next
	} else {
		prev.next = curr.next
	}
	if c.cmdsTail == curr {
		c.cmdsTail = prev
	}
	curr.next = nil
}

func (c *Client) forward(pkt *Packet) {
	select {
	case c.unsolicited <- pkt:
	default:
		glog.V(2).Infof("drop unsolicited %s code=%d", pkt.Direction, pkt.Code)
	}
}
