package domain

import (
	"fmt"
	"strings"
)

// RRType represents a DNS resource record type (e.g. A, AAAA, MX).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// Record types a question may carry. Answers are always RRTypeA.
const (
	RRTypeA     RRType = 1   // A - IPv4 address
	RRTypeNS    RRType = 2   // NS - Name server
	RRTypeCNAME RRType = 5   // CNAME - Canonical name
	RRTypeSOA   RRType = 6   // SOA - Start of authority
	RRTypePTR   RRType = 12  // PTR - Pointer
	RRTypeMX    RRType = 15  // MX - Mail exchange
	RRTypeTXT   RRType = 16  // TXT - Text
	RRTypeAAAA  RRType = 28  // AAAA - IPv6 address
	RRTypeSRV   RRType = 33  // SRV - Service
	RRTypeANY   RRType = 255 // ANY - Any type (query only)
)

var rrtypeNames = map[RRType]string{
	RRTypeA:     "A",
	RRTypeNS:    "NS",
	RRTypeCNAME: "CNAME",
	RRTypeSOA:   "SOA",
	RRTypePTR:   "PTR",
	RRTypeMX:    "MX",
	RRTypeTXT:   "TXT",
	RRTypeAAAA:  "AAAA",
	RRTypeSRV:   "SRV",
	RRTypeANY:   "ANY",
}

// IsValid returns true if the RRType is one of the known types.
func (t RRType) IsValid() bool {
	_, ok := rrtypeNames[t]
	return ok
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	if s, ok := rrtypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// RRTypeFromString converts a record type mnemonic to its RRType value.
// Matching is case-insensitive; unknown names return 0.
func RRTypeFromString(s string) RRType {
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range rrtypeNames {
		if name == s {
			return t
		}
	}
	return 0 // invalid/unknown
}
