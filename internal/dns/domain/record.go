package domain

import (
	"fmt"

	"github.com/haukened/fixed-dns/internal/dns/common/rrdata"
)

// ResourceRecord is an answer record. Only A records are served, so Data
// always holds a 4-byte IPv4 address.
type ResourceRecord struct {
	Name  DomainName
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
}

// NewARecord builds an A record for name pointing at the dotted-quad address.
func NewARecord(name string, class RRClass, ttl uint32, address string) (ResourceRecord, error) {
	n, err := ParseDomainName(name)
	if err != nil {
		return ResourceRecord{}, configErr("answer.name", err)
	}
	data, err := rrdata.EncodeAData(address)
	if err != nil {
		return ResourceRecord{}, configErr("answer.address", err)
	}
	rr := ResourceRecord{
		Name:  n,
		Type:  RRTypeA,
		Class: class,
		TTL:   ttl,
		Data:  data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if err := rr.Name.Validate(); err != nil {
		return configErr("answer.name", err)
	}
	if rr.Type != RRTypeA {
		return configErr("answer.type", fmt.Errorf("only A records are served, got %s", rr.Type))
	}
	if !rr.Class.IsValid() {
		return configErr("answer.class", fmt.Errorf("invalid RRClass: %d", rr.Class))
	}
	if len(rr.Data) != rrdata.ALength {
		return configErr("answer.data", fmt.Errorf("A record data must be %d bytes, got %d", rrdata.ALength, len(rr.Data)))
	}
	return nil
}

// Address returns the record data in dotted-quad form.
func (rr ResourceRecord) Address() string {
	s, err := rrdata.DecodeAData(rr.Data)
	if err != nil {
		return ""
	}
	return s
}
