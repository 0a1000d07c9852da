package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 判题引擎指标
	PracticeAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_attempts_total",
			Help: "Total number of recorded practice attempts",
		},
		[]string{"passed"},
	)

	JudgeVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coding_judge_verdicts_total",
			Help: "Total number of judged coding submissions",
		},
		[]string{"kind", "passed"},
	)

	ExecutorCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "executor_calls_total",
			Help: "Total number of calls to the code execution service",
		},
		[]string{"outcome"},
	)

	ExecutorDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "executor_call_duration_seconds",
			Help:    "Duration of code execution service calls",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PracticeAttempts)
	prometheus.MustRegister(JudgeVerdicts)
	prometheus.MustRegister(ExecutorCalls)
	prometheus.MustRegister(ExecutorDuration)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
