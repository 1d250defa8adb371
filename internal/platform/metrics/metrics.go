package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "ifitness"

// Manager holds the application's Prometheus metrics on a private registry.
type Manager struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	UsersRegistered prometheus.Counter
	WorkoutsLogged  prometheus.Counter
	EventJoins      *prometheus.CounterVec
	EmailsSent      *prometheus.CounterVec
}

// NewManager creates and registers all metrics.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	m := &Manager{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UsersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of user registrations.",
		}),
		WorkoutsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_logged_total",
			Help:      "Total number of workouts created.",
		}),
		EventJoins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_joins_total",
			Help:      "Total number of accepted event invitations by event kind.",
		}, []string{"kind"}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Outgoing emails by template and result.",
		}, []string{"template", "result"}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPLatency,
		m.UsersRegistered,
		m.WorkoutsLogged,
		m.EventJoins,
		m.EmailsSent,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// GinMiddleware records request counts and latency. Routes are labelled by
// their registered pattern so path parameters don't explode cardinality.
func (m *Manager) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Server exposes /metrics on its own listener.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer returns nil when port is empty, which disables the metrics listener.
func NewServer(port string, registry *prometheus.Registry, logger *zap.Logger) *Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the listener in the background.
func (s *Server) Start() {
	if s == nil {
		return
	}
	go func() {
		s.logger.Info("Prometheus metrics server starting", zap.String("addr", s.srv.Addr), zap.String("path", "/metrics"))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
