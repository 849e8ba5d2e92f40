// Package bridge forwards packets between a link and MQTT, WebSocket
// clients and capture files.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/msp.go/pkg/capture"
	"github.com/robotalks/msp.go/pkg/metrics"
	"github.com/robotalks/msp.go/pkg/mqtt"
	"github.com/robotalks/msp.go/pkg/msp"
	"github.com/robotalks/msp.go/pkg/msp/records"
)

const (
	topicRoot = "msp"
	// SendTopics is the pattern of topics to send requests.
	SendTopics = topicRoot + "/send/+"
)

// Bridge dispatches packets received from Link. All fields except Link
// are optional.
type Bridge struct {
	Link      *msp.Link
	Publisher mqtt.Publisher
	Capture   *capture.Writer
	Metrics   *metrics.Metrics
	Relay     *Relay
}

// New creates a Bridge and installs it as the link handler.
func New(link *msp.Link) *Bridge {
	b := &Bridge{Link: link}
	link.Handler = b
	link.Errors = b
	return b
}

// PacketTopic returns the topic a packet is published to.
func PacketTopic(pkt *msp.Packet) string {
	return fmt.Sprintf("%s/%s/%d", topicRoot, pkt.Direction, pkt.Code)
}

// SendTopic returns the topic to send a request with code.
func SendTopic(code byte) string {
	return fmt.Sprintf("%s/send/%d", topicRoot, code)
}

// ParseSendTopic extracts the code from a send topic.
func ParseSendTopic(topic string) (byte, error) {
	prefix := topicRoot + "/send/"
	if !strings.HasPrefix(topic, prefix) {
		return 0, fmt.Errorf("not a send topic: %q", topic)
	}
	code, err := strconv.ParseUint(topic[len(prefix):], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid code in topic %q: %w", topic, err)
	}
	return byte(code), nil
}

// HandlePacket implements msp.PacketHandler.
func (b *Bridge) HandlePacket(ctx context.Context, pkt *msp.Packet) {
	if m := b.Metrics; m != nil {
		m.ObservePacket(pkt)
	}
	if w := b.Capture; w != nil {
		if err := w.Write(pkt); err != nil {
			glog.Errorf("capture: %v", err)
		}
	}
	if p := b.Publisher; p != nil {
		b.publish(p, pkt)
	}
	if r := b.Relay; r != nil {
		if err := r.Forward(pkt); err != nil {
			glog.Warningf("relay: %v", err)
		}
	}
}

// HandleError implements msp.ErrorHandler.
func (b *Bridge) HandleError(ctx context.Context, err error) {
	glog.V(1).Infof("link: %v", err)
	if m := b.Metrics; m != nil {
		m.HandleError(ctx, err)
	}
}

// Subscribe forwards messages on send topics to the link.
func (b *Bridge) Subscribe(q *mqtt.Queue) *mqtt.Subscription {
	return q.Sub(SendTopics, b.HandleSend)
}

// HandleSend is the mqtt.Handler for send topics.
func (b *Bridge) HandleSend(topic string, payload []byte) {
	code, err := ParseSendTopic(topic)
	if err != nil {
		glog.Warning(err)
		return
	}
	if err := b.Link.Send(msp.NewRequest(code, payload)); err != nil {
		glog.Warningf("send %d: %v", code, err)
	}
}

func (b *Bridge) publish(p mqtt.Publisher, pkt *msp.Packet) {
	topic := PacketTopic(pkt)
	p.Pub(topic, pkt.Data.Bytes())
	layout, ok := records.Lookup(pkt.Code)
	if !ok || pkt.Direction != msp.FromFlightController {
		return
	}
	rec, err := layout.Unpack(pkt.Data.Bytes())
	if err != nil {
		glog.V(2).Infof("decode %s: %v", layout.Name, err)
		return
	}
	out, err := json.Marshal(rec)
	if err != nil {
		glog.Errorf("encode %s: %v", layout.Name, err)
		return
	}
	p.Pub(topic+"/json", out)
}
