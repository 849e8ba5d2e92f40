package bridge

import (
	"errors"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/msp.go/pkg/msp"
)

// ErrRelayBusy rejects a second WebSocket client.
var ErrRelayBusy = errors.New("relay busy")

// Relay exchanges serialized frames with one WebSocket client at a time.
// Each message from the client may carry any number of frames; each
// packet from the link is sent as one message.
type Relay struct {
	Link *msp.Link

	lock sync.Mutex
	conn *websocket.Conn
}

// NewRelay creates a Relay sending to link.
func NewRelay(link *msp.Link) *Relay {
	return &Relay{Link: link}
}

// Handler returns the http.Handler accepting clients.
func (r *Relay) Handler() http.Handler {
	return websocket.Handler(r.serve)
}

// Forward sends a packet to the connected client, if any.
func (r *Relay) Forward(pkt *msp.Packet) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.conn == nil {
		return nil
	}
	b, err := pkt.Bytes()
	if err != nil {
		return err
	}
	return websocket.Message.Send(r.conn, b)
}

func (r *Relay) attach(conn *websocket.Conn) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.conn != nil {
		return false
	}
	r.conn = conn
	return true
}

func (r *Relay) detach(conn *websocket.Conn) {
	r.lock.Lock()
	if r.conn == conn {
		r.conn = nil
	}
	r.lock.Unlock()
}

func (r *Relay) serve(conn *websocket.Conn) {
	defer conn.Close()
	if !r.attach(conn) {
		glog.Warningf("relay: reject %s: %v", conn.Request().RemoteAddr, ErrRelayBusy)
		websocket.Message.Send(conn, ErrRelayBusy.Error())
		return
	}
	defer r.detach(conn)
	glog.Infof("relay: client %s attached", conn.Request().RemoteAddr)

	var parser msp.Parser
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			glog.Infof("relay: client detached: %v", err)
			return
		}
		for _, b := range msg {
			pkt, err := parser.Parse(b)
			if err != nil {
				glog.Warningf("relay: %v", err)
				continue
			}
			if pkt == nil {
				continue
			}
			if err := r.Link.Send(pkt); err != nil {
				glog.Errorf("relay: send: %v", err)
				return
			}
		}
	}
}
