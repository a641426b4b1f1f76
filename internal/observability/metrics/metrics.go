package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpOnce sync.Once
	httpInst *HTTPMetrics

	schedulerOnce sync.Once
	schedulerInst *SchedulerMetrics
)

// HTTPMetrics counts requests and observes latency per route and status.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func HTTP() *HTTPMetrics {
	httpOnce.Do(func() {
		httpInst = &HTTPMetrics{
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mensa_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			}, []string{"method", "route", "status"}),
			duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "mensa_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			}, []string{"method", "route"}),
		}
	})
	return httpInst
}

func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || route == "" {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Middleware records per-request metrics keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	inst := HTTP()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unmatched routes collapse into one label to keep cardinality flat.
			route = "unmatched"
		}
		inst.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// SchedulerMetrics tracks background job runs and their outcomes.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobFailures *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	rowsDeleted prometheus.Counter
}

func Scheduler() *SchedulerMetrics {
	schedulerOnce.Do(func() {
		schedulerInst = &SchedulerMetrics{
			jobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mensa_scheduler_job_runs_total",
				Help: "Scheduler job executions by job name.",
			}, []string{"job"}),
			jobFailures: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "mensa_scheduler_job_failures_total",
				Help: "Scheduler job failures by job name.",
			}, []string{"job"}),
			jobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "mensa_scheduler_job_duration_seconds",
				Help:    "Scheduler job run time by job name.",
				Buckets: prometheus.DefBuckets,
			}, []string{"job"}),
			rowsDeleted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "mensa_scheduler_schedule_rows_deleted_total",
				Help: "Scheduled meal rows removed by the cleanup job.",
			}),
		}
	})
	return schedulerInst
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobFailure(job string) {
	if m == nil {
		return
	}
	m.jobFailures.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func (m *SchedulerMetrics) AddRowsDeleted(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.rowsDeleted.Add(float64(count))
}
