package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of the quoting services.
type Metrics struct {
	quotesTotal   *prometheus.CounterVec
	quoteDuration *prometheus.HistogramVec
	eventsDecoded *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amm_quotes_total",
			Help: "Quotes served, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		quoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amm_quote_duration_seconds",
			Help:    "Time spent computing a quote including state reads.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		eventsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amm_events_decoded_total",
			Help: "Pool events decoded from transaction metadata, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.quotesTotal, m.quoteDuration, m.eventsDecoded)
	return m
}

// track starts timing a quote of the given kind. The returned func records
// the outcome; it is safe to call on a nil *Metrics.
func (m *Metrics) track(kind string) func(err error) {
	if m == nil {
		return func(error) {}
	}
	timer := prometheus.NewTimer(m.quoteDuration.WithLabelValues(kind))
	return func(err error) {
		timer.ObserveDuration()
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.quotesTotal.WithLabelValues(kind, outcome).Inc()
	}
}

// EventsDecoded returns the counter handed to the event decoder, or nil on a
// nil *Metrics.
func (m *Metrics) EventsDecoded() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.eventsDecoded
}
