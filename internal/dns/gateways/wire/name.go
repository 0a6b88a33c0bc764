package wire

import (
	"bytes"

	"github.com/haukened/fixed-dns/internal/dns/domain"
)

// EncodeName encodes a domain name into DNS wire format without compression:
// each label as a length byte followed by its bytes, then a zero terminator.
// The root name encodes to a single zero byte.
func EncodeName(name domain.DomainName) ([]byte, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(name.WireLength())
	for _, label := range name {
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0) // End of name
	return buf.Bytes(), nil
}
