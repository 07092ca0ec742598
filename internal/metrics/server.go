package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/integbench/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves the /metrics endpoint of a Collector.
type Server struct {
	metrics *Collector
	logger  logging.Logger
	http    *http.Server
}

// NewServer returns a server for addr. It does not listen until Start.
func NewServer(addr string, c *Collector, logger logging.Logger) *Server {
	s := &Server{metrics: c, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", securityHeaders(s.handleMetrics))
	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves in the background
// until ctx is canceled. It returns the bound address, which differs from
// the configured one when the port is 0.
func (s *Server) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()
	s.logger.Info("serving metrics", logging.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.logger.Debug("rejected metrics request", logging.String("method", r.Method))
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// securityHeaders sets defensive response headers before calling next.
func securityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next(w, r)
	}
}
