// Package wire provides encoding of DNS messages for UDP transport.
// It handles the DNS wire format as specified in RFC 1035.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/fixed-dns/internal/dns/domain"
)

// HeaderSize is the fixed length of a DNS message header.
const HeaderSize = 12

// Bit positions inside the 16-bit flags word (MSB first: QR OPCODE AA TC RD RA Z RCODE).
const (
	qrShift     = 15
	opcodeShift = 11
	aaShift     = 10
	tcShift     = 9
	rdShift     = 8
	raShift     = 7
	zShift      = 4
)

// PackFlags builds the flags word. Opcode, Z and RCode are masked to their
// declared widths before shifting, so out-of-range values never spill into
// neighbouring fields.
func PackFlags(h domain.Header) uint16 {
	flags := uint16(uint8(h.Opcode)&domain.OpcodeMask)<<opcodeShift |
		uint16(h.Z&domain.ZMask)<<zShift |
		uint16(uint8(h.RCode)&domain.RCodeMask)
	flags |= bit(h.QR) << qrShift
	flags |= bit(h.AA) << aaShift
	flags |= bit(h.TC) << tcShift
	flags |= bit(h.RD) << rdShift
	flags |= bit(h.RA) << raShift
	return flags
}

// UnpackFlags is the inverse of PackFlags. Only the flag fields of the
// returned Header are set.
func UnpackFlags(flags uint16) domain.Header {
	//gosec:disable G115 -- every value is masked to at most 4 bits before the conversion.
	return domain.Header{
		QR:     flags>>qrShift&1 == 1,
		Opcode: domain.Opcode(flags >> opcodeShift & uint16(domain.OpcodeMask)),
		AA:     flags>>aaShift&1 == 1,
		TC:     flags>>tcShift&1 == 1,
		RD:     flags>>rdShift&1 == 1,
		RA:     flags>>raShift&1 == 1,
		Z:      uint8(flags >> zShift & uint16(domain.ZMask)),
		RCode:  domain.RCode(flags & uint16(domain.RCodeMask)),
	}
}

// EncodeHeader serializes h into its 12-byte big-endian wire form.
func EncodeHeader(h domain.Header) []byte {
	out := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(out[0:2], h.ID)
	binary.BigEndian.PutUint16(out[2:4], PackFlags(h))
	binary.BigEndian.PutUint16(out[4:6], h.QDCount)
	binary.BigEndian.PutUint16(out[6:8], h.ANCount)
	binary.BigEndian.PutUint16(out[8:10], h.NSCount)
	binary.BigEndian.PutUint16(out[10:12], h.ARCount)
	return out
}

// DecodeHeader parses the first 12 bytes of data.
func DecodeHeader(data []byte) (domain.Header, error) {
	if len(data) < HeaderSize {
		return domain.Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", domain.ErrMalformedInput, HeaderSize, len(data))
	}
	h := UnpackFlags(binary.BigEndian.Uint16(data[2:4]))
	h.ID = binary.BigEndian.Uint16(data[0:2])
	h.QDCount = binary.BigEndian.Uint16(data[4:6])
	h.ANCount = binary.BigEndian.Uint16(data[6:8])
	h.NSCount = binary.BigEndian.Uint16(data[8:10])
	h.ARCount = binary.BigEndian.Uint16(data[10:12])
	return h, nil
}

// TransactionID reads the id from the first two bytes of a message.
func TransactionID(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("%w: transaction id needs 2 bytes, got %d", domain.ErrMalformedInput, len(data))
	}
	return binary.BigEndian.Uint16(data[0:2]), nil
}

func bit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
