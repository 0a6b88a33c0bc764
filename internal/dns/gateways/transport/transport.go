// Package transport owns the network side of the responder: it binds the
// socket, receives datagrams, hands them to the service layer and sends the
// reply back to the originating address.
package transport

import (
	"context"

	"github.com/haukened/fixed-dns/internal/dns/services/responder"
)

// MaxDatagramSize is the largest DNS message accepted over UDP without EDNS (RFC 1035 §2.3.4).
const MaxDatagramSize = 512

// ServerTransport defines the interface for DNS server transport implementations.
type ServerTransport interface {
	// Start binds the socket and begins serving requests via handler.
	Start(ctx context.Context, handler responder.DatagramResponder) error

	// Stop closes the socket and ends the serve loop.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string

	// Done yields once when the serve loop exits: nil on a clean stop,
	// a fatal *TransportError otherwise.
	Done() <-chan error
}
