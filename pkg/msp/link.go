package msp

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// PacketHandler is called when a packet is received.
type PacketHandler interface {
	HandlePacket(context.Context, *Packet)
}

// HandlePacketFunc is func type of PacketHandler.
type HandlePacketFunc func(context.Context, *Packet)

// HandlePacket implements PacketHandler.
func (f HandlePacketFunc) HandlePacket(ctx context.Context, pkt *Packet) {
	f(ctx, pkt)
}

// ErrorHandler is called with recoverable parsing errors.
type ErrorHandler interface {
	HandleError(context.Context, error)
}

// HandleErrorFunc is func type of ErrorHandler.
type HandleErrorFunc func(context.Context, error)

// HandleError implements ErrorHandler.
func (f HandleErrorFunc) HandleError(ctx context.Context, err error) {
	f(ctx, err)
}

// Link sends/receives packets over a byte stream owned by the caller.
type Link struct {
	ReadWriter io.ReadWriter
	Handler    PacketHandler
	Errors     ErrorHandler
	// Parser is only touched by Run. Configure it before Run starts.
	Parser Parser

	sendLock sync.Mutex
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{ReadWriter: rw}
}

// Send sends a packet. It's safe for concurrent use.
func (l *Link) Send(pkt *Packet) error {
	l.sendLock.Lock()
	defer l.sendLock.Unlock()
	_, err := pkt.WriteTo(l.ReadWriter)
	if err == nil && glog.V(2) {
		glog.Infof("SND %s code=%d len=%d", pkt.Direction, pkt.Code, pkt.Data.Len())
	}
	return err
}

// Run reads and parses until the context is canceled or reading fails.
func (l *Link) Run(ctx context.Context) error {
	byteCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case chunk := <-byteCh:
			for _, b := range chunk {
				l.feed(ctx, b)
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, byteCh chan []byte, errCh chan error) {
	for {
		buf := make([]byte, 64)
		n, err := l.ReadWriter.Read(buf)
		if n > 0 {
			select {
			case byteCh <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (l *Link) feed(ctx context.Context, b byte) {
	pkt, err := l.Parser.Parse(b)
	if err != nil {
		glog.V(2).Infof("RCV error: %v", err)
		if h := l.Errors; h != nil {
			h.HandleError(ctx, err)
		}
		return
	}
	if pkt == nil {
		return
	}
	if glog.V(2) {
		glog.Infof("RCV %s code=%d len=%d", pkt.Direction, pkt.Code, pkt.Data.Len())
	}
	if h := l.Handler; h != nil {
		h.HandlePacket(ctx, pkt)
	}
}
