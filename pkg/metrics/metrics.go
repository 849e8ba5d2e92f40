// Package metrics exports link statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robotalks/msp.go/pkg/msp"
)

// Metrics counts packets and parsing errors of one link.
type Metrics struct {
	Packets        *prometheus.CounterVec
	PayloadBytes   prometheus.Counter
	ChecksumErrors prometheus.Counter
	FramingErrors  *prometheus.CounterVec
	LinkErrors     prometheus.Counter
}

// New creates and registers the collectors.
// namespace defaults to "msp" and registerer to prometheus.DefaultRegisterer.
func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "msp"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Packets received, by direction and code.",
		}, []string{"direction", "code"}),
		PayloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_bytes_total",
			Help:      "Payload bytes received.",
		}),
		ChecksumErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checksum_errors_total",
			Help:      "Frames dropped for checksum mismatch.",
		}),
		FramingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "framing_errors_total",
			Help:      "Bytes discarded while resynchronizing, by reason.",
		}, []string{"reason"}),
		LinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_errors_total",
			Help:      "Other errors reported by the link.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Packets, m.PayloadBytes, m.ChecksumErrors, m.FramingErrors, m.LinkErrors} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveFraming implements msp.FramingObserver.
func (m *Metrics) ObserveFraming(err *msp.FramingError) {
	m.FramingErrors.WithLabelValues(err.Reason.String()).Inc()
}

// ObservePacket counts a received packet.
func (m *Metrics) ObservePacket(pkt *msp.Packet) {
	m.Packets.WithLabelValues(pkt.Direction.String(), strconv.Itoa(int(pkt.Code))).Inc()
	m.PayloadBytes.Add(float64(pkt.Data.Len()))
}

// HandleError implements msp.ErrorHandler.
// Framing errors are counted by ObserveFraming already.
func (m *Metrics) HandleError(ctx context.Context, err error) {
	var csErr *msp.ChecksumError
	var frErr *msp.FramingError
	switch {
	case errors.As(err, &csErr):
		m.ChecksumErrors.Inc()
	case errors.As(err, &frErr):
	default:
		m.LinkErrors.Inc()
	}
}
