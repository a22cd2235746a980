package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flatchat_messages_total",
		Help: "Total number of chat messages appended to room logs",
	})
	SigninsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flatchat_signins_total",
		Help: "Sign-in attempts by result (created, ok, incorrect_password, invalid)",
	}, []string{"result"})
	AccountsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flatchat_accounts_deleted_total",
		Help: "Total number of deleted accounts",
	})
	RoomsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flatchat_rooms_created_total",
		Help: "Total number of rooms created through the create form",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(MessagesTotal, SigninsTotal, AccountsDeletedTotal, RoomsCreatedTotal, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。路径使用路由模板，避免房间名撑爆标签基数。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
