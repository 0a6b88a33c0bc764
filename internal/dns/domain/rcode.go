package domain

import "fmt"

// RCode represents a DNS response code. It occupies the low 4 bits of the
// header flags word.
type RCode uint8

// Response codes from RFC 1035 §4.1.1 and RFC 2136.
const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
	RCodeYXDomain RCode = 6
	RCodeYXRRSet  RCode = 7
	RCodeNXRRSet  RCode = 8
	RCodeNotAuth  RCode = 9
	RCodeNotZone  RCode = 10
)

// rcodeMax is the largest value that fits the 4-bit RCODE field.
const rcodeMax RCode = 0xF

// IsValid returns true if the RCode fits into the 4-bit header field.
func (r RCode) IsValid() bool {
	return r <= rcodeMax
}

var rcodeNames = map[RCode]string{
	RCodeNoError:  "NOERROR",
	RCodeFormErr:  "FORMERR",
	RCodeServFail: "SERVFAIL",
	RCodeNXDomain: "NXDOMAIN",
	RCodeNotImp:   "NOTIMP",
	RCodeRefused:  "REFUSED",
	RCodeYXDomain: "YXDOMAIN",
	RCodeYXRRSet:  "YXRRSET",
	RCodeNXRRSet:  "NXRRSET",
	RCodeNotAuth:  "NOTAUTH",
	RCodeNotZone:  "NOTZONE",
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	if s, ok := rcodeNames[r]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", r)
}

// ParseRCode converts a mnemonic to an RCode. ok is false for unknown names.
func ParseRCode(s string) (RCode, bool) {
	for code, name := range rcodeNames {
		if name == s {
			return code, true
		}
	}
	return 0, false
}
