// Package health serves the watch loop's health and metrics endpoints.
//
// This package implements:
//   - Reminder sweep status tracking
//   - GET /health with uptime and last sweep outcome
//   - GET /metrics exposing the Prometheus registry
package health

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UnhealthyAfter is the number of consecutive failed sweeps after which
// /health reports "unhealthy".
const UnhealthyAfter = 3

// Status represents the application health status.
//
// Fields:
//   - Status: "healthy" or "unhealthy"
//   - Uptime: How long the watcher has been running
//   - LastSweepTime: When the last reminder sweep finished
//   - LastSweepStatus: "success", "not started" or the failure message
//   - ConsecutiveFailures: Failed sweeps since the last success
type Status struct {
	Status              string `json:"status"`
	Uptime              string `json:"uptime"`
	LastSweepTime       string `json:"last_sweep_time"`
	LastSweepStatus     string `json:"last_sweep_status"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}

// Monitor tracks reminder sweep outcomes. Safe for concurrent use.
type Monitor struct {
	mu                  sync.RWMutex
	startTime           time.Time
	lastSweepTime       time.Time
	lastSweepStatus     string
	consecutiveFailures int
}

// NewMonitor creates a monitor with no sweeps recorded.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:       time.Now(),
		lastSweepStatus: "not started",
	}
}

// RecordSweep stores the outcome of a sweep. A nil err is a success.
// It returns the number of consecutive failures.
func (m *Monitor) RecordSweep(err error) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSweepTime = time.Now()
	if err != nil {
		m.lastSweepStatus = err.Error()
		m.consecutiveFailures++
	} else {
		m.lastSweepStatus = "success"
		m.consecutiveFailures = 0
	}
	return m.consecutiveFailures
}

// GetStatus returns the current health status.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := "healthy"
	if m.consecutiveFailures >= UnhealthyAfter {
		status = "unhealthy"
	}

	var last string
	if !m.lastSweepTime.IsZero() {
		last = m.lastSweepTime.Format("2006-01-02 15:04:05")
	}

	return Status{
		Status:              status,
		Uptime:              time.Since(m.startTime).Round(time.Second).String(),
		LastSweepTime:       last,
		LastSweepStatus:     m.lastSweepStatus,
		ConsecutiveFailures: m.consecutiveFailures,
	}
}

// Router builds the handler for /health and /metrics.
// /health answers 503 while the monitor is unhealthy.
func Router(monitor *Monitor, gatherer prometheus.Gatherer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status := monitor.GetStatus()

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(status)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// StartServer serves handler on :port in the background until ctx is
// cancelled. It returns the bound address, which differs from port
// when port is "0".
func StartServer(ctx context.Context, port string, handler http.Handler, logger *zap.Logger) (string, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	return ln.Addr().String(), nil
}
