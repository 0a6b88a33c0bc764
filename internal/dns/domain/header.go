package domain

import "fmt"

// Opcode is the 4-bit kind-of-query field of the header.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
	OpcodeNotify Opcode = 4
	OpcodeUpdate Opcode = 5
)

// Widths of the multi-bit header fields, as masks.
const (
	OpcodeMask uint8 = 0xF
	ZMask      uint8 = 0x7
	RCodeMask  uint8 = 0xF
)

// Header holds the fixed 12-byte DNS message header (RFC 1035 §4.1.1).
// The single-bit flags are bools; Opcode, Z and RCode are masked to their
// widths when packed.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  Opcode
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       uint8
	RCode   RCode
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Validate rejects field values that would be silently truncated on the wire.
func (h Header) Validate() error {
	if uint8(h.Opcode) > OpcodeMask {
		return configErr("header.opcode", fmt.Errorf("%d does not fit in 4 bits", h.Opcode))
	}
	if h.Z != 0 {
		return configErr("header.z", fmt.Errorf("reserved field must be 0, got %d", h.Z))
	}
	if !h.RCode.IsValid() {
		return configErr("header.rcode", fmt.Errorf("%d does not fit in 4 bits", h.RCode))
	}
	return nil
}
