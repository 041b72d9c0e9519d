package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BasketMetrics records pricing, basket mutation and merge activity.
type BasketMetrics struct {
	quotes        *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	mergeDuration *prometheus.HistogramVec
	mergeItems    *prometheus.CounterVec
}

// NewBasketMetrics registers the basket metrics on the provided registerer.
func NewBasketMetrics(reg prometheus.Registerer) *BasketMetrics {
	if reg == nil {
		return &BasketMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oak_quotes_total",
		Help: "Configuration quotes by product and outcome.",
	}, []string{"product", "outcome"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oak_basket_mutations_total",
		Help: "Basket mutations by operation, session mode and outcome.",
	}, []string{"op", "mode", "outcome"})
	mergeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oak_basket_merge_duration_seconds",
		Help:    "Duration of anonymous basket merges in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"state"})
	mergeItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oak_basket_merge_items_total",
		Help: "Anonymous basket lines handled by merges, by result.",
	}, []string{"result"})
	reg.MustRegister(quotes, mutations, mergeDuration, mergeItems)
	return &BasketMetrics{
		quotes:        quotes,
		mutations:     mutations,
		mergeDuration: mergeDuration,
		mergeItems:    mergeItems,
	}
}

// IncQuote counts a quote for product.
func (m *BasketMetrics) IncQuote(product string, err error) {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.WithLabelValues(normalizeLabel(product), outcome(err)).Inc()
}

// IncMutation counts a basket mutation.
func (m *BasketMetrics) IncMutation(op, mode string, err error) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op), normalizeLabel(mode), outcome(err)).Inc()
}

// ObserveMerge records how long a merge took to reach state.
func (m *BasketMetrics) ObserveMerge(state string, duration time.Duration) {
	if m == nil || m.mergeDuration == nil {
		return
	}
	m.mergeDuration.WithLabelValues(normalizeLabel(state)).Observe(duration.Seconds())
}

// AddMergeItems counts merged lines by result (applied, skipped, dropped).
func (m *BasketMetrics) AddMergeItems(result string, n int) {
	if m == nil || m.mergeItems == nil || n <= 0 {
		return
	}
	m.mergeItems.WithLabelValues(normalizeLabel(result)).Add(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
