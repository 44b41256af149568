package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels recorded for every call.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFound    = "found"
	OutcomeAbsent   = "absent"
	OutcomeError    = "error"
)

// Collector records client-side RPC metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phonebook",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Phone book RPCs issued, by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "phonebook",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Round-trip time of phone book RPCs, including connection setup.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"op"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "phonebook",
			Subsystem: "client",
			Name:      "calls_in_flight",
			Help:      "Phone book RPCs currently waiting for a response.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.calls, c.duration, c.inFlight)
	}
	return c
}

// Start marks a call as in flight and returns the function that records
// its outcome.
func (c *Collector) Start(op string) func(outcome string) {
	if c == nil {
		return func(string) {}
	}
	start := time.Now()
	c.inFlight.Inc()
	return func(outcome string) {
		c.inFlight.Dec()
		c.calls.WithLabelValues(op, outcome).Inc()
		c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// Serve exposes g on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
