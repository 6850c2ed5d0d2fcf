package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	QuestionsSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_selected_total",
			Help: "Questions added to assembled sets, by source stage",
		},
		[]string{"source"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "question_pipeline_duration_seconds",
			Help:    "Duration of question set assembly",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"field"},
	)

	AIGenerationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generation_failures_total",
			Help: "Failed AI question generation calls",
		},
		[]string{"category"},
	)

	PipelineFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_pipeline_fallbacks_total",
			Help: "Times the legacy generator replaced the assembly pipeline",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// collectors 全部业务与 HTTP 指标
func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestCounter,
		RequestDuration,
		QuestionsSelected,
		PipelineDuration,
		AIGenerationFailures,
		PipelineFallbacks,
	}
}

// Init 注册到默认 registry，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(collectors()...)
	})
}

// MetricsMiddleware 未匹配路由统一记为 "unmatched"，避免路径基数膨胀
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestCounter.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
