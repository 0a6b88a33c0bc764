package domain

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLength is the longest label a length-prefix byte may announce.
	MaxLabelLength = 63
	// MaxNameLength bounds a name's wire form: labels, prefixes and terminator.
	MaxNameLength = 255
)

// DomainName is an ordered list of labels. The root name has no labels.
// Labels keep the case they were written in.
type DomainName []string

// ParseDomainName splits presentation text such as "www.example.com." into labels.
// A single trailing dot is accepted; "" and "." yield the root name.
func ParseDomainName(s string) (DomainName, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return DomainName{}, nil
	}
	s = strings.TrimSuffix(s, ".")
	name := DomainName(strings.Split(s, "."))
	if err := name.Validate(); err != nil {
		return nil, err
	}
	return name, nil
}

// MustParseDomainName is ParseDomainName for constants; it panics on error.
func MustParseDomainName(s string) DomainName {
	name, err := ParseDomainName(s)
	if err != nil {
		panic(err)
	}
	return name
}

// WireLength returns the encoded size: one prefix byte per label, the label
// bytes, and the terminating zero byte.
func (n DomainName) WireLength() int {
	size := 1
	for _, label := range n {
		size += 1 + len(label)
	}
	return size
}

// IsRoot reports whether the name has no labels.
func (n DomainName) IsRoot() bool {
	return len(n) == 0
}

// Validate checks every label and the total encoded length.
func (n DomainName) Validate() error {
	for i, label := range n {
		if len(label) == 0 {
			return fmt.Errorf("%w at index %d", ErrEmptyLabel, i)
		}
		if len(label) > MaxLabelLength {
			return fmt.Errorf("%w: %q is %d bytes (max %d)", ErrLabelTooLong, label, len(label), MaxLabelLength)
		}
		for j := 0; j < len(label); j++ {
			if label[j] > 0x7F {
				return fmt.Errorf("%w: %q", ErrNonASCIILabel, label)
			}
		}
	}
	if l := n.WireLength(); l > MaxNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrNameTooLong, l, MaxNameLength)
	}
	return nil
}

// String returns the name in presentation form with a trailing dot.
func (n DomainName) String() string {
	if n.IsRoot() {
		return "."
	}
	return strings.Join(n, ".") + "."
}
