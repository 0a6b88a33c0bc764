package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/fixed-dns/internal/dns/domain"
)

func TestPackFlags(t *testing.T) {
	tests := []struct {
		name   string
		header domain.Header
		want   uint16
	}{
		{name: "all clear", header: domain.Header{}, want: 0x0000},
		{name: "qr only", header: domain.Header{QR: true}, want: 0x8000},
		{name: "standard query rd", header: domain.Header{RD: true}, want: 0x0100},
		{name: "response with ra", header: domain.Header{QR: true, RD: true, RA: true}, want: 0x8180},
		{name: "aa and tc", header: domain.Header{AA: true, TC: true}, want: 0x0600},
		{name: "opcode status", header: domain.Header{Opcode: domain.OpcodeStatus}, want: 0x1000},
		{name: "max opcode", header: domain.Header{Opcode: 0xF}, want: 0x7800},
		{name: "z bits", header: domain.Header{Z: 0x7}, want: 0x0070},
		{name: "rcode nxdomain", header: domain.Header{RCode: domain.RCodeNXDomain}, want: 0x0003},
		{name: "everything", header: domain.Header{QR: true, Opcode: 0xF, AA: true, TC: true, RD: true, RA: true, Z: 0x7, RCode: 0xF}, want: 0xFFFF},
		// out-of-range values are truncated to their width, never spilled
		{name: "opcode truncated", header: domain.Header{Opcode: 0x1F}, want: 0x7800},
		{name: "z truncated", header: domain.Header{Z: 0xFF}, want: 0x0070},
		{name: "rcode truncated", header: domain.Header{RCode: 0x13}, want: 0x0003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PackFlags(tt.header), "flags %#04x", PackFlags(tt.header))
		})
	}
}

func TestFlags_RoundTripAllValues(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		flags := uint16(v)
		if got := PackFlags(UnpackFlags(flags)); got != flags {
			t.Fatalf("PackFlags(UnpackFlags(%#04x)) = %#04x", flags, got)
		}
	}
}

func TestUnpackFlags(t *testing.T) {
	h := UnpackFlags(0x8180)
	assert.True(t, h.QR)
	assert.True(t, h.RD)
	assert.True(t, h.RA)
	assert.False(t, h.AA)
	assert.False(t, h.TC)
	assert.Equal(t, domain.OpcodeQuery, h.Opcode)
	assert.Equal(t, domain.RCodeNoError, h.RCode)
	assert.Zero(t, h.ID)

	h = UnpackFlags(0x2875)
	assert.Equal(t, domain.Opcode(5), h.Opcode)
	assert.Equal(t, uint8(7), h.Z)
	assert.Equal(t, domain.RCode(5), h.RCode)
}

func TestEncodeHeader(t *testing.T) {
	h := domain.Header{
		ID:      1234,
		QR:      true,
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 0x0102,
	}
	got := EncodeHeader(h)
	want := []byte{
		0x04, 0xd2, // id 1234
		0x80, 0x00, // qr=1
		0x00, 0x01,
		0x00, 0x02,
		0x00, 0x03,
		0x01, 0x02,
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, HeaderSize)
}

func TestDecodeHeader(t *testing.T) {
	h := domain.Header{
		ID:      0xbeef,
		QR:      true,
		Opcode:  domain.OpcodeNotify,
		AA:      true,
		RD:      true,
		RCode:   domain.RCodeRefused,
		QDCount: 1,
		ANCount: 1,
		NSCount: 7,
		ARCount: 9,
	}
	decoded, err := DecodeHeader(EncodeHeader(h))
	require.NoError(t, err)
	assert.Equal(t, h, decoded)

	// trailing bytes beyond the header are ignored
	withBody := append(EncodeHeader(h), 0x03, 'a', 'b', 'c', 0x00)
	decoded, err = DecodeHeader(withBody)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestDecodeHeader_Short(t *testing.T) {
	for _, n := range []int{0, 1, 2, 11} {
		_, err := DecodeHeader(make([]byte, n))
		assert.ErrorIs(t, err, domain.ErrMalformedInput, "len %d", n)
	}
}

func TestTransactionID(t *testing.T) {
	id, err := TransactionID([]byte{0x1a, 0x2b})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1a2b), id)

	id, err = TransactionID([]byte{0xff, 0xfe, 0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(0xfffe), id)

	_, err = TransactionID([]byte{0x1a})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = TransactionID(nil)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestResolveID(t *testing.T) {
	assert.Equal(t, uint16(0x1a2b), ResolveID([]byte{0x1a, 0x2b, 0x00}, 9999))
	assert.Equal(t, uint16(9999), ResolveID([]byte{0x1a}, 9999))
	assert.Equal(t, uint16(9999), ResolveID(nil, 9999))
}
