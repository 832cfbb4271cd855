package qotd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Noratrieb/qotdd/internal/app"
	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/platform/config"
	"github.com/Noratrieb/qotdd/internal/platform/logging"
)

// Server is the QOTD TCP listener. Each accepted connection is handled
// on its own goroutine: the daemon writes one quote followed by a
// newline and closes the connection without reading anything.
type Server struct {
	cfg     *config.QOTDConfig
	service *app.QuoteService
	logger  *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool

	wg sync.WaitGroup
}

// NewServer creates a new QOTD TCP server.
func NewServer(cfg *config.QOTDConfig, service *app.QuoteService, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		service: service,
		logger:  logger.With(slog.String("component", "qotd.tcp")),
	}
}

// Start binds the listener and begins accepting connections.
// Returns an error channel that receives a domain.BindError if the
// address cannot be bound, or an accept error if the loop fails.
// This method is non-blocking.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		errCh <- domain.NewBindError("tcp", s.cfg.Addr(), err)
		close(errCh)

		return errCh
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("qotd tcp server listening",
		slog.String("addr", listener.Addr().String()),
	)

	go s.acceptLoop(listener, errCh)

	return errCh
}

// acceptLoop accepts connections until the listener is closed.
// One quote is served per connection on a dedicated goroutine.
func (s *Server) acceptLoop(listener net.Listener, errCh chan<- error) {
	defer close(errCh)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return
			}

			errCh <- fmt.Errorf("qotd tcp accept: %w", err)

			return
		}

		s.wg.Add(1)

		go s.handleConn(conn)
	}
}

// handleConn serves a single connection: write one quote, close.
// The client is never read from; anything it sends is discarded by the
// close. Rate-limited clients get the connection closed with no payload.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	ctx := logging.WithRemoteAddr(context.Background(), remote)

	quote, err := s.service.QuoteFor(ctx, clientAddr(conn.RemoteAddr()))
	if err != nil {
		if domain.IsRateLimited(err) {
			rateLimited.WithLabelValues("tcp").Inc()

			return
		}

		connectionErrors.WithLabelValues("tcp").Inc()
		s.logger.Warn("quote selection failed",
			slog.String("remote_addr", remote),
			slog.Any("error", err),
		)

		return
	}

	if s.cfg.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			connectionErrors.WithLabelValues("tcp").Inc()

			return
		}
	}

	if _, err := conn.Write(payload(quote, s.cfg.MaxQuoteLength)); err != nil {
		connectionErrors.WithLabelValues("tcp").Inc()
		s.logger.Debug("quote write failed",
			slog.String("remote_addr", remote),
			slog.Any("error", domain.NewConnectionError("write", remote, err)),
		)

		return
	}

	quotesServed.WithLabelValues("tcp").Inc()
}

// Shutdown stops accepting connections and waits for in-flight
// connections to finish. The provided context bounds the wait.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("qotd tcp close: %w", err)
		}
	}

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("qotd tcp server stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("qotd tcp shutdown: %w", ctx.Err())
	}
}

// Addr returns the bound listener address, or the configured address if
// the server has not started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.cfg.Addr()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Name implements ports.HealthChecker.
func (s *Server) Name() string {
	return "qotd-tcp"
}

// Check implements ports.HealthChecker. The server is healthy once the
// listener is bound and until shutdown begins.
func (s *Server) Check(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil || s.closed {
		return domain.NewUnavailableError("qotd-tcp", "not listening")
	}

	return nil
}
