package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus реализует usecase.Metrics и HTTP-метрики поверх собственного реестра.
type Prometheus struct {
	registry         *prometheus.Registry
	syncOutcomes     *prometheus.CounterVec
	syncDuration     prometheus.Histogram
	orderMutations   *prometheus.CounterVec
	cartLines        prometheus.Histogram
	cartDropped      prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpRequestTimes *prometheus.HistogramVec
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		syncOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_items_total",
			Help: "Feed items processed by stock synchronization, by outcome.",
		}, []string{"outcome"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of a stock synchronization request.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		orderMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_mutations_total",
			Help: "Order mutations by final step and result.",
		}, []string{"step", "result"}),
		cartLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cart_lines",
			Help:    "Number of lines in a cart read.",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
		cartDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_dropped_lines_total",
			Help: "Cart lines dropped because the product or offer no longer resolves.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "endpoint", "status"}),
		httpRequestTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		}, []string{"method", "endpoint", "status"}),
	}

	p.registry.MustRegister(
		p.syncOutcomes,
		p.syncDuration,
		p.orderMutations,
		p.cartLines,
		p.cartDropped,
		p.httpRequests,
		p.httpRequestTimes,
	)

	return p
}

func (p *Prometheus) ObserveSyncOutcome(outcome usecase.Outcome) {
	p.syncOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *Prometheus) ObserveSyncDuration(d time.Duration) {
	p.syncDuration.Observe(d.Seconds())
}

func (p *Prometheus) ObserveOrderMutation(step usecase.MutationStep, success bool) {
	result := "aborted"
	if success {
		result = "committed"
	}
	p.orderMutations.WithLabelValues(string(step), result).Inc()
}

func (p *Prometheus) ObserveCartRead(lines int, dropped int) {
	p.cartLines.Observe(float64(lines))
	p.cartDropped.Add(float64(dropped))
}

// RecordRequest записывает метрики для HTTP-запроса. endpoint задаётся шаблоном маршрута chi.
func (p *Prometheus) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	p.httpRequests.WithLabelValues(method, endpoint, status).Inc()
	p.httpRequestTimes.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// Handler возвращает HTTP-обработчик для экспорта метрик.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode < 100 || statusCode >= 600 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
