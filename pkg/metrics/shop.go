package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records dialog, checkout and fulfillment activity.
type ShopMetrics struct {
	events           *prometheus.CounterVec
	eventDuration    *prometheus.HistogramVec
	ordersPlaced     *prometheus.CounterVec
	stockFailures    prometheus.Counter
	transitions      *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
}

// NewShopMetrics registers the shop collectors on the provided registerer. A
// nil registerer yields a no-op recorder.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_total",
		Help: "Inbound chat events handled, by kind.",
	}, []string{"kind"})
	eventDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_event_duration_seconds",
		Help:    "Time spent handling one inbound chat event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created at checkout, by delivery type.",
	}, []string{"delivery"})
	stockFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_stock_decrement_failures_total",
		Help: "Cart lines whose stock decrement failed during checkout.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied by admins, by target status.",
	}, []string{"status"})
	deliveryFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_delivery_failures_total",
		Help: "Failed outbound delivery attempts, by shape.",
	}, []string{"shape"})
	reg.MustRegister(events, eventDuration, ordersPlaced, stockFailures, transitions, deliveryFailures)
	return &ShopMetrics{
		events:           events,
		eventDuration:    eventDuration,
		ordersPlaced:     ordersPlaced,
		stockFailures:    stockFailures,
		transitions:      transitions,
		deliveryFailures: deliveryFailures,
	}
}

// ObserveEvent counts one handled event and its duration.
func (m *ShopMetrics) ObserveEvent(kind string, duration time.Duration) {
	if m == nil || m.events == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.events.WithLabelValues(kind).Inc()
	m.eventDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *ShopMetrics) IncOrderPlaced(delivery string) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(delivery)).Inc()
}

func (m *ShopMetrics) IncStockDecrementFailure() {
	if m == nil || m.stockFailures == nil {
		return
	}
	m.stockFailures.Inc()
}

func (m *ShopMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *ShopMetrics) IncDeliveryFailure(shape string) {
	if m == nil || m.deliveryFailures == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(normalizeLabel(shape)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
