// Package responder answers every datagram with the same configured DNS
// response, echoing the caller's transaction id.
package responder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/haukened/fixed-dns/internal/dns/common/log"
	"github.com/haukened/fixed-dns/internal/dns/domain"
	"github.com/haukened/fixed-dns/internal/dns/gateways/wire"
)

// ErrNoBuilder is returned by New when Options.Builder is nil.
var ErrNoBuilder = errors.New("responder: builder is required")

// Responder holds one immutable ResponseConfig and builds a reply from it
// for every request. The incoming question is not inspected.
type Responder struct {
	builder wire.ResponseBuilder
	config  domain.ResponseConfig
	logger  log.Logger

	served    atomic.Uint64
	fallbacks atomic.Uint64
	failures  atomic.Uint64
}

// Options configures a Responder.
type Options struct {
	Builder wire.ResponseBuilder
	Config  domain.ResponseConfig
	Logger  log.Logger
}

// Stats is a snapshot of the responder's counters.
type Stats struct {
	Served    uint64
	Fallbacks uint64
	Failures  uint64
}

// New validates the configuration once and returns a ready Responder.
func New(opts Options) (*Responder, error) {
	if opts.Builder == nil {
		return nil, ErrNoBuilder
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("responder: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Responder{
		builder: opts.Builder,
		config:  opts.Config,
		logger:  logger,
	}, nil
}

// HandleDatagram builds the reply for data. A datagram too short to carry a
// transaction id still gets an answer, using the configured default id.
func (r *Responder) HandleDatagram(ctx context.Context, data []byte, clientAddr net.Addr) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := wire.TransactionID(data); err != nil {
		r.fallbacks.Add(1)
		r.logger.Debug(map[string]any{
			"client":     addrString(clientAddr),
			"size":       len(data),
			"default_id": r.config.Header.ID,
		}, "Request too short for a transaction id, using default")
	}

	resp, err := r.builder.BuildResponse(data, r.config)
	if err != nil {
		r.failures.Add(1)
		return nil, fmt.Errorf("building response: %w", err)
	}

	r.served.Add(1)
	return resp, nil
}

// Config returns the response configuration the responder serves.
func (r *Responder) Config() domain.ResponseConfig {
	return r.config
}

// Stats returns the current counters.
func (r *Responder) Stats() Stats {
	return Stats{
		Served:    r.served.Load(),
		Fallbacks: r.fallbacks.Load(),
		Failures:  r.failures.Load(),
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

var _ DatagramResponder = (*Responder)(nil)
