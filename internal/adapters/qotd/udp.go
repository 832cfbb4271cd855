package qotd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/Noratrieb/qotdd/internal/app"
	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/platform/config"
	"github.com/Noratrieb/qotdd/internal/platform/logging"
)

// UDPServer is the QOTD UDP listener. The contents of an incoming
// datagram are ignored; its arrival is the request, and the reply is a
// single datagram carrying one quote. Rate-limited clients get no reply.
type UDPServer struct {
	cfg     *config.QOTDConfig
	service *app.QuoteService
	logger  *slog.Logger

	mu     sync.Mutex
	conn   net.PacketConn
	closed bool

	done chan struct{}
}

// NewUDPServer creates a new QOTD UDP server.
func NewUDPServer(cfg *config.QOTDConfig, service *app.QuoteService, logger *slog.Logger) *UDPServer {
	return &UDPServer{
		cfg:     cfg,
		service: service,
		logger:  logger.With(slog.String("component", "qotd.udp")),
		done:    make(chan struct{}),
	}
}

// Start binds the UDP socket and begins answering datagrams.
// Returns an error channel that receives a domain.BindError if the
// address cannot be bound, or a read error if the loop fails.
// This method is non-blocking.
func (s *UDPServer) Start() <-chan error {
	errCh := make(chan error, 1)

	conn, err := net.ListenPacket("udp", s.cfg.Addr())
	if err != nil {
		errCh <- domain.NewBindError("udp", s.cfg.Addr(), err)
		close(errCh)

		return errCh
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("qotd udp server listening",
		slog.String("addr", conn.LocalAddr().String()),
	)

	go s.readLoop(conn, errCh)

	return errCh
}

// readLoop answers datagrams until the socket is closed. A datagram of
// any size (including zero) is a valid request.
func (s *UDPServer) readLoop(conn net.PacketConn, errCh chan<- error) {
	defer close(errCh)
	defer close(s.done)

	buf := make([]byte, domain.MaxQuoteLength)

	for {
		_, remote, err := conn.ReadFrom(buf)
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return
			}

			errCh <- fmt.Errorf("qotd udp read: %w", err)

			return
		}

		s.respond(conn, remote)
	}
}

// respond serves one quote to the datagram sender.
func (s *UDPServer) respond(conn net.PacketConn, remote net.Addr) {
	ctx := logging.WithRemoteAddr(context.Background(), remote.String())

	quote, err := s.service.QuoteFor(ctx, clientAddr(remote))
	if err != nil {
		if domain.IsRateLimited(err) {
			rateLimited.WithLabelValues("udp").Inc()
		} else {
			connectionErrors.WithLabelValues("udp").Inc()
		}

		return
	}

	if _, err := conn.WriteTo(payload(quote, s.cfg.MaxQuoteLength), remote); err != nil {
		connectionErrors.WithLabelValues("udp").Inc()
		s.logger.Debug("quote reply failed",
			slog.String("remote_addr", remote.String()),
			slog.Any("error", domain.NewConnectionError("write", remote.String(), err)),
		)

		return
	}

	quotesServed.WithLabelValues("udp").Inc()
}

// Shutdown closes the socket and waits for the read loop to exit.
func (s *UDPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("qotd udp close: %w", err)
	}

	select {
	case <-s.done:
		s.logger.Info("qotd udp server stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("qotd udp shutdown: %w", ctx.Err())
	}
}

// Addr returns the bound socket address, or the configured address if
// the server has not started.
func (s *UDPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn.LocalAddr().String()
	}

	return s.cfg.Addr()
}

func (s *UDPServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Name implements ports.HealthChecker.
func (s *UDPServer) Name() string {
	return "qotd-udp"
}

// Check implements ports.HealthChecker.
func (s *UDPServer) Check(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.closed {
		return domain.NewUnavailableError("qotd-udp", "not listening")
	}

	return nil
}
