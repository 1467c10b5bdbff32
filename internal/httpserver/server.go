package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

// Server runs an http.Handler in the background between Start and Stop
type Server struct {
	logger *zap.Logger
	name   string
	srv    *http.Server

	mu   sync.RWMutex
	addr net.Addr
	done chan struct{}
}

// New creates a server bound to addr once started
func New(logger *zap.Logger, name, addr string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With(zap.String("server", name)),
		name:   name,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start binds the listener synchronously and serves in a goroutine.
// It returns immediately (non-blocking).
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%s: failed to listen on %s: %w", s.name, s.srv.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		defer close(done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully drains in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	if done == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", s.name, err)
	}
	<-done

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
