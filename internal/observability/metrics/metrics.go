package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flightintent"

// ExtractionMetrics counts which cascade stage filled each slot and how the
// passenger breakdown was obtained. It satisfies extraction.Observer.
type ExtractionMetrics struct {
	strategyTotal   *prometheus.CounterVec
	passengerSource *prometheus.CounterVec
	turnLatency     prometheus.Histogram
}

func NewExtractionMetrics(reg prometheus.Registerer) *ExtractionMetrics {
	m := &ExtractionMetrics{
		strategyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "strategy_total",
			Help:      "Slots filled, by field and the cascade stage that filled them",
		}, []string{"field", "strategy"}),
		passengerSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "passenger_source_total",
			Help:      "Passenger breakdowns by source (llm, fallback, carried_over)",
		}, []string{"source"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "turn_duration_seconds",
			Help:      "Time spent extracting one turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.strategyTotal, m.passengerSource, m.turnLatency)
	return m
}

func (m *ExtractionMetrics) ObserveStrategy(field, strategy string) {
	if m == nil {
		return
	}
	m.strategyTotal.WithLabelValues(field, strategy).Inc()
}

func (m *ExtractionMetrics) ObservePassengerSource(source string) {
	if m == nil {
		return
	}
	m.passengerSource.WithLabelValues(source).Inc()
}

func (m *ExtractionMetrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.turnLatency.Observe(d.Seconds())
}

// ConversationMetrics exposes counters for the session layer.
type ConversationMetrics struct {
	turnsTotal    *prometheus.CounterVec
	restartsTotal prometheus.Counter
	storeErrors   *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Conversation turns by response type",
		}, []string{"response_type"}),
		restartsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "restarts_total",
			Help:      "Sessions reset by the caller",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "store_errors_total",
			Help:      "Session store failures by operation",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.restartsTotal, m.storeErrors)
	return m
}

func (m *ConversationMetrics) ObserveTurn(responseType string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(responseType).Inc()
}

func (m *ConversationMetrics) ObserveRestart() {
	if m == nil {
		return
	}
	m.restartsTotal.Inc()
}

func (m *ConversationMetrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}
