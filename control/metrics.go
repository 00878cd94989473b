// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for a stream. StreamMetrics satisfies client.Observer,
// so it can be plugged straight into client.Config.

package control

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "hioload_stream"

// StreamMetrics holds the collectors of one named stream.
type StreamMetrics struct {
	framesIn   *prometheus.CounterVec
	framesOut  prometheus.Counter
	bytesIn    prometheus.Counter
	bytesOut   prometheus.Counter
	evicted    prometheus.Counter
	queueDepth prometheus.Gauge
	connected  prometheus.Gauge
}

// NewStreamMetrics creates the collectors labelled with stream=name and
// registers them with reg.
func NewStreamMetrics(reg prometheus.Registerer, name string) (*StreamMetrics, error) {
	labels := prometheus.Labels{"stream": name}
	m := &StreamMetrics{
		framesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "frames_in_total",
			Help:        "Data frames received, by opcode.",
			ConstLabels: labels,
		}, []string{"opcode"}),
		framesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "frames_out_total",
			Help:        "Frames sent.",
			ConstLabels: labels,
		}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "bytes_in_total",
			Help:        "Payload bytes received.",
			ConstLabels: labels,
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "bytes_out_total",
			Help:        "Payload bytes sent.",
			ConstLabels: labels,
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "evicted_bytes_total",
			Help:        "Inbound bytes dropped because the queue was full.",
			ConstLabels: labels,
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_depth_bytes",
			Help:        "Bytes waiting in the inbound queue.",
			ConstLabels: labels,
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "connected",
			Help:        "1 while the stream is connected.",
			ConstLabels: labels,
		}),
	}
	for _, c := range []prometheus.Collector{m.framesIn, m.framesOut, m.bytesIn, m.bytesOut, m.evicted, m.queueDepth, m.connected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *StreamMetrics) FrameIn(opcode byte, payload int) {
	m.framesIn.WithLabelValues(strconv.Itoa(int(opcode))).Inc()
	m.bytesIn.Add(float64(payload))
}

func (m *StreamMetrics) FrameOut(payload int) {
	m.framesOut.Inc()
	m.bytesOut.Add(float64(payload))
}

func (m *StreamMetrics) Evicted(n int) { m.evicted.Add(float64(n)) }

func (m *StreamMetrics) QueueDepth(n int) { m.queueDepth.Set(float64(n)) }

func (m *StreamMetrics) Connected(up bool) {
	if up {
		m.connected.Set(1)
		return
	}
	m.connected.Set(0)
}
