package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so tests and multiple app instances do not
// collide on the global default registerer.
type Collector struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	leavesCreated *prometheus.CounterVec
	leavesDecided *prometheus.CounterVec
	leavesDeleted prometheus.Counter
	rateLimited   prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leavesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_requests_created_total",
			Help: "Leave requests submitted, by leave type.",
		}, []string{"leave_type"}),
		leavesDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_requests_decided_total",
			Help: "Leave decisions, by resulting status.",
		}, []string{"status"}),
		leavesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leave_requests_deleted_total",
			Help: "Pending leave requests withdrawn by their owner.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests, c.duration, c.leavesCreated, c.leavesDecided, c.leavesDeleted, c.rateLimited,
	)
	return c
}

func (c *Collector) Record(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) LeaveCreated(leaveType string) {
	if c == nil {
		return
	}
	c.leavesCreated.WithLabelValues(leaveType).Inc()
}

func (c *Collector) LeaveDecided(status string) {
	if c == nil {
		return
	}
	c.leavesDecided.WithLabelValues(status).Inc()
}

func (c *Collector) LeaveDeleted() {
	if c == nil {
		return
	}
	c.leavesDeleted.Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
