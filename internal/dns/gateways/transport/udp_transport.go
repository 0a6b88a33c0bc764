package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/haukened/fixed-dns/internal/dns/common/log"
	"github.com/haukened/fixed-dns/internal/dns/services/responder"
)

// DefaultReadTimeout bounds each blocking read so the loop notices context
// cancellation without waiting for traffic.
const DefaultReadTimeout = 500 * time.Millisecond

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// One goroutine owns the socket and handles datagrams strictly one at a time:
// receive, build, send, repeat.
type UDPTransport struct {
	addr        string
	conn        *net.UDPConn
	logger      log.Logger
	readTimeout time.Duration

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	done    chan error
}

// Option customizes a UDPTransport.
type Option func(*UDPTransport)

// WithReadTimeout overrides DefaultReadTimeout.
func WithReadTimeout(d time.Duration) Option {
	return func(t *UDPTransport) {
		if d > 0 {
			t.readTimeout = d
		}
	}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, logger log.Logger, opts ...Option) *UDPTransport {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	t := &UDPTransport{
		addr:        addr,
		logger:      logger,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start binds the UDP socket and launches the serve loop.
func (t *UDPTransport) Start(ctx context.Context, handler responder.DatagramResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}
	if handler == nil {
		return fmt.Errorf("UDP transport requires a handler")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.done = make(chan error, 1)

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	go t.serveLoop(ctx, conn, handler, t.done)

	return nil
}

// Stop closes the socket. The serve loop sees the closed socket, exits and
// reports nil on Done. Calling Stop on a stopped transport is a no-op.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the bound address once started, the configured one before.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

// Done returns the channel the current serve loop reports its exit on.
// It is nil before the first Start.
func (t *UDPTransport) Done() <-chan error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.done
}

func (t *UDPTransport) isRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// serveLoop reads one datagram, answers it, and repeats until the context is
// cancelled, Stop is called, or a fatal socket error occurs.
func (t *UDPTransport) serveLoop(ctx context.Context, conn *net.UDPConn, handler responder.DatagramResponder, done chan<- error) {
	done <- t.runLoop(ctx, conn, handler)
	close(done)
}

func (t *UDPTransport) runLoop(ctx context.Context, conn *net.UDPConn, handler responder.DatagramResponder) error {
	buffer := make([]byte, MaxDatagramSize)

	for {
		if ctx.Err() != nil {
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return nil
		}

		if err := conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
			if !t.isRunning() {
				return nil
			}
			return t.fatal(classify("set deadline", err))
		}

		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if !t.isRunning() {
				t.logger.Debug(nil, "UDP transport stopping due to stop signal")
				return nil
			}
			if isTimeout(err) {
				continue
			}
			terr := classify("read", err)
			if terr.Fatal {
				return t.fatal(terr)
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}

		// handler runs synchronously and must not retain the buffer
		if err := t.handlePacket(ctx, conn, buffer[:n], clientAddr, handler); err != nil {
			if !t.isRunning() {
				return nil
			}
			return t.fatal(err)
		}
	}
}

func (t *UDPTransport) fatal(err *TransportError) error {
	t.logger.Error(map[string]any{
		"op":    err.Op,
		"error": err.Err.Error(),
	}, "UDP transport failed")
	return err
}

// handlePacket answers a single datagram. Failures that only concern this
// datagram are logged and swallowed; the returned error is always fatal.
func (t *UDPTransport) handlePacket(ctx context.Context, conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr, handler responder.DatagramResponder) *TransportError {
	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	response, err := handler.HandleDatagram(ctx, data, clientAddr)
	if err != nil {
		t.logger.Error(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Failed to build DNS response")
		return nil
	}

	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(response),
		"raw":    fmt.Sprintf("%x", response),
	}, "Encoded DNS response data")

	if _, err := conn.WriteToUDP(response, clientAddr); err != nil {
		terr := classify("write", err)
		if terr.Fatal {
			return terr
		}
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
		}, "Failed to send DNS response")
		return nil
	}

	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(response),
	}, "Sent DNS response")
	return nil
}

var _ ServerTransport = (*UDPTransport)(nil)
