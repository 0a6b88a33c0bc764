package transport

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// TransportError wraps a socket failure with its class. Recoverable errors
// affect a single datagram; fatal errors end the serve loop.
type TransportError struct {
	Op    string
	Fatal bool
	Err   error
}

func (e *TransportError) Error() string {
	class := "recoverable"
	if e.Fatal {
		class = "fatal"
	}
	return fmt.Sprintf("udp %s failed (%s): %v", e.Op, class, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a fatal TransportError.
func IsFatal(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Fatal
}

// peerErrors are raised by the kernel for one peer (usually via ICMP) and
// leave the socket usable.
var peerErrors = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
	syscall.EMSGSIZE,
}

// classify sorts a socket error into recoverable or fatal.
func classify(op string, err error) *TransportError {
	if isTimeout(err) {
		return &TransportError{Op: op, Err: err}
	}
	for _, pe := range peerErrors {
		if errors.Is(err, pe) {
			return &TransportError{Op: op, Err: err}
		}
	}
	return &TransportError{Op: op, Fatal: true, Err: err}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
