package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics records outcomes of the order fulfillment pipeline.
type FulfillmentMetrics struct {
	ordersShipped   *prometheus.CounterVec
	ordersCancelled *prometheus.CounterVec
	unitsPicked     *prometheus.CounterVec
	unitsPacked     *prometheus.CounterVec
	shipLatency     *prometheus.HistogramVec
}

// NewFulfillmentMetrics registers fulfillment metrics on the provided registerer.
func NewFulfillmentMetrics(reg prometheus.Registerer) *FulfillmentMetrics {
	if reg == nil {
		return &FulfillmentMetrics{}
	}
	ordersShipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_shipped_total",
		Help: "Orders that reached the shipped state.",
	}, []string{"site"})
	ordersCancelled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled before shipment.",
	}, []string{"site"})
	unitsPicked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "units_picked_total",
		Help: "Units recorded as picked.",
	}, []string{"site"})
	unitsPacked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "units_packed_total",
		Help: "Units recorded as packed.",
	}, []string{"site"})
	shipLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_ship_latency_seconds",
		Help:    "Time from order creation to shipment in seconds.",
		Buckets: prometheus.ExponentialBuckets(60, 4, 10),
	}, []string{"site"})
	reg.MustRegister(ordersShipped, ordersCancelled, unitsPicked, unitsPacked, shipLatency)
	return &FulfillmentMetrics{
		ordersShipped:   ordersShipped,
		ordersCancelled: ordersCancelled,
		unitsPicked:     unitsPicked,
		unitsPacked:     unitsPacked,
		shipLatency:     shipLatency,
	}
}

// IncOrdersShipped increments the shipped counter for the site.
func (m *FulfillmentMetrics) IncOrdersShipped(site string) {
	if m == nil || m.ordersShipped == nil {
		return
	}
	m.ordersShipped.WithLabelValues(normalizeLabel(site)).Inc()
}

// IncOrdersCancelled increments the cancelled counter for the site.
func (m *FulfillmentMetrics) IncOrdersCancelled(site string) {
	if m == nil || m.ordersCancelled == nil {
		return
	}
	m.ordersCancelled.WithLabelValues(normalizeLabel(site)).Inc()
}

// AddUnitsPicked adds the picked quantity for the site.
func (m *FulfillmentMetrics) AddUnitsPicked(site string, qty int) {
	if m == nil || m.unitsPicked == nil || qty <= 0 {
		return
	}
	m.unitsPicked.WithLabelValues(normalizeLabel(site)).Add(float64(qty))
}

// AddUnitsPacked adds the packed quantity for the site.
func (m *FulfillmentMetrics) AddUnitsPacked(site string, qty int) {
	if m == nil || m.unitsPacked == nil || qty <= 0 {
		return
	}
	m.unitsPacked.WithLabelValues(normalizeLabel(site)).Add(float64(qty))
}

// ObserveShipLatency records the creation-to-shipment latency for the site.
func (m *FulfillmentMetrics) ObserveShipLatency(site string, latency time.Duration) {
	if m == nil || m.shipLatency == nil || latency < 0 {
		return
	}
	m.shipLatency.WithLabelValues(normalizeLabel(site)).Observe(latency.Seconds())
}

func normalizeLabel(site string) string {
	if site == "" {
		return "unknown"
	}
	return site
}
