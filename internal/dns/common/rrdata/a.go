// Package rrdata converts record data between presentation text and wire bytes.
package rrdata

import (
	"fmt"
	"net"
	"strings"
)

// ALength is the rdlength of every A record.
const ALength = 4

// EncodeAData encodes a dotted-quad IPv4 address into its 4-byte wire form.
func EncodeAData(data string) ([]byte, error) {
	// data = "192.168.0.1"
	data = strings.TrimSpace(data)
	ip := net.ParseIP(data)
	if !isIPv4(ip) || strings.Contains(data, ":") {
		return nil, fmt.Errorf("invalid A record IP: %q", data)
	}
	return []byte(ip.To4()), nil
}

// DecodeAData decodes 4 bytes of A record data into dotted-quad text.
func DecodeAData(data []byte) (string, error) {
	if len(data) != ALength {
		return "", fmt.Errorf("invalid A record length: %d", len(data))
	}
	return net.IP(data).String(), nil
}

// isIPv4 checks whether the provided net.IP address has a 4-byte form.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}
