package monitor

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"training.pl/warehouse/common"
	"training.pl/warehouse/concurrency"
)

// StatsSource reports the queue of the run in progress.
type StatsSource interface {
	Stats() (concurrency.QueueStats, bool)
	RunID() string
}

// Server exposes health, queue stats and Prometheus metrics over HTTP.
type Server struct {
	source  StatsSource
	metrics *Metrics
	router  *gin.Engine
}

func NewServer(source StatsSource, metrics *Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		source:  source,
		metrics: metrics,
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/healthz", s.health)
	s.router.GET("/stats", s.stats)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) stats(c *gin.Context) {
	stats, ok := s.source.Stats()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no run started"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id": s.source.RunID(),
		"queue":  stats,
		"log":    common.GetMetrics(),
	})
}

// Start serves on listener until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: common.MonitorReadTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), common.MonitorShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			common.Warn("monitor shutdown: %v", err)
		}
	}()

	common.Info("monitor listening on %s", listener.Addr())
	err := server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return err
}

// ListenAndStart opens addr and serves until ctx is done.
func (s *Server) ListenAndStart(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Start(ctx, listener)
}
