package responder

import (
	"context"
	"net"
)

// DatagramResponder turns one received datagram into the reply to send back.
// The transport handles all socket details; the responder only sees bytes.
type DatagramResponder interface {
	HandleDatagram(ctx context.Context, data []byte, clientAddr net.Addr) ([]byte, error)
}
