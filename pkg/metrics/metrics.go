package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request and order-core measurements.
type Metrics struct {
	httpDuration    *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	paymentsPosted  prometheus.Counter
	stockRejections prometheus.Counter
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created.",
	})
	paymentsPosted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_posted_total",
		Help: "Ledger postings recorded against orders.",
	})
	stockRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_rejections_total",
		Help: "Stock adjustments rejected because the result would go negative.",
	})
	reg.MustRegister(httpDuration, ordersCreated, paymentsPosted, stockRejections)
	return &Metrics{
		httpDuration:    httpDuration,
		ordersCreated:   ordersCreated,
		paymentsPosted:  paymentsPosted,
		stockRejections: stockRejections,
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncOrdersCreated increments the created-orders counter.
func (m *Metrics) IncOrdersCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncPaymentsPosted increments the posted-payments counter.
func (m *Metrics) IncPaymentsPosted() {
	if m == nil || m.paymentsPosted == nil {
		return
	}
	m.paymentsPosted.Inc()
}

// IncStockRejections increments the rejected-adjustment counter.
func (m *Metrics) IncStockRejections() {
	if m == nil || m.stockRejections == nil {
		return
	}
	m.stockRejections.Inc()
}
