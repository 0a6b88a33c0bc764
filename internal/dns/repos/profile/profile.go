// Package profile loads a complete response profile (header, question and
// answer) from a YAML, JSON or TOML file.
package profile

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/fixed-dns/internal/dns/domain"
)

// SupportedExtensions lists the file extensions Load understands.
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".toml"}

type headerSection struct {
	ID      int    `koanf:"id"`
	QR      bool   `koanf:"qr"`
	Opcode  int    `koanf:"opcode"`
	AA      bool   `koanf:"aa"`
	TC      bool   `koanf:"tc"`
	RD      bool   `koanf:"rd"`
	RA      bool   `koanf:"ra"`
	Z       int    `koanf:"z"`
	RCode   string `koanf:"rcode"`
	QDCount int    `koanf:"qdcount"`
	ANCount int    `koanf:"ancount"`
	NSCount int    `koanf:"nscount"`
	ARCount int    `koanf:"arcount"`
}

type questionSection struct {
	Name  string `koanf:"name"`
	Type  string `koanf:"type"`
	Class string `koanf:"class"`
}

type answerSection struct {
	Name    string `koanf:"name"`
	Type    string `koanf:"type"`
	Class   string `koanf:"class"`
	TTL     int64  `koanf:"ttl"`
	Address string `koanf:"address"`
}

type document struct {
	Header   headerSection   `koanf:"header"`
	Question questionSection `koanf:"question"`
	Answer   answerSection   `koanf:"answer"`
}

// Load reads the profile at path on top of base. Keys missing from the file
// keep the value from base, so a profile may override as little as one field.
func Load(path string, base domain.ResponseConfig) (domain.ResponseConfig, error) {
	parser, err := parserFor(path)
	if err != nil {
		return domain.ResponseConfig{}, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(base), "."), nil); err != nil {
		return domain.ResponseConfig{}, fmt.Errorf("error loading profile defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return domain.ResponseConfig{}, fmt.Errorf("error loading profile %s: %w", path, err)
	}

	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return domain.ResponseConfig{}, fmt.Errorf("error decoding profile %s: %w", path, err)
	}
	return doc.toResponseConfig()
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported profile format %q (want one of %s)", filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}
}

// defaults flattens base into the key space of a profile document.
func defaults(base domain.ResponseConfig) map[string]any {
	h := base.Header
	return map[string]any{
		"header.id":      int(h.ID),
		"header.qr":      h.QR,
		"header.opcode":  int(h.Opcode),
		"header.aa":      h.AA,
		"header.tc":      h.TC,
		"header.rd":      h.RD,
		"header.ra":      h.RA,
		"header.z":       int(h.Z),
		"header.rcode":   strconv.Itoa(int(h.RCode)),
		"header.qdcount": int(h.QDCount),
		"header.ancount": int(h.ANCount),
		"header.nscount": int(h.NSCount),
		"header.arcount": int(h.ARCount),

		"question.name":  base.Question.Name.String(),
		"question.type":  base.Question.Type.String(),
		"question.class": base.Question.Class.String(),

		"answer.name":    base.Answer.Name.String(),
		"answer.type":    base.Answer.Type.String(),
		"answer.class":   base.Answer.Class.String(),
		"answer.ttl":     int64(base.Answer.TTL),
		"answer.address": base.Answer.Address(),
	}
}

func (d document) toResponseConfig() (domain.ResponseConfig, error) {
	h, err := d.Header.toHeader()
	if err != nil {
		return domain.ResponseConfig{}, err
	}

	qtype, err := parseType("question.type", d.Question.Type)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	qclass, err := parseClass("question.class", d.Question.Class)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	q, err := domain.NewQuestion(d.Question.Name, qtype, qclass)
	if err != nil {
		return domain.ResponseConfig{}, err
	}

	atype, err := parseType("answer.type", d.Answer.Type)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	if atype != domain.RRTypeA {
		return domain.ResponseConfig{}, fieldErr("answer.type", fmt.Errorf("only A records are served, got %s", atype))
	}
	aclass, err := parseClass("answer.class", d.Answer.Class)
	if err != nil {
		return domain.ResponseConfig{}, err
	}
	if d.Answer.TTL < 0 || d.Answer.TTL > math.MaxUint32 {
		return domain.ResponseConfig{}, fieldErr("answer.ttl", fmt.Errorf("%d out of range", d.Answer.TTL))
	}
	a, err := domain.NewARecord(d.Answer.Name, aclass, uint32(d.Answer.TTL), d.Answer.Address)
	if err != nil {
		return domain.ResponseConfig{}, err
	}

	return domain.NewResponseConfig(h, q, a)
}

func (s headerSection) toHeader() (domain.Header, error) {
	id, err := uint16Field("header.id", s.ID)
	if err != nil {
		return domain.Header{}, err
	}
	counts := make([]uint16, 4)
	for i, c := range []struct {
		field string
		value int
	}{
		{"header.qdcount", s.QDCount},
		{"header.ancount", s.ANCount},
		{"header.nscount", s.NSCount},
		{"header.arcount", s.ARCount},
	} {
		if counts[i], err = uint16Field(c.field, c.value); err != nil {
			return domain.Header{}, err
		}
	}
	if s.Opcode < 0 || s.Opcode > int(domain.OpcodeMask) {
		return domain.Header{}, fieldErr("header.opcode", fmt.Errorf("%d does not fit in 4 bits", s.Opcode))
	}
	if s.Z < 0 || s.Z > int(domain.ZMask) {
		return domain.Header{}, fieldErr("header.z", fmt.Errorf("%d does not fit in 3 bits", s.Z))
	}
	rcode, err := parseRCode(s.RCode)
	if err != nil {
		return domain.Header{}, err
	}

	h := domain.Header{
		ID:      id,
		QR:      s.QR,
		Opcode:  domain.Opcode(s.Opcode),
		AA:      s.AA,
		TC:      s.TC,
		RD:      s.RD,
		RA:      s.RA,
		Z:       uint8(s.Z),
		RCode:   rcode,
		QDCount: counts[0],
		ANCount: counts[1],
		NSCount: counts[2],
		ARCount: counts[3],
	}
	return h, h.Validate()
}

// parseRCode accepts a mnemonic such as NXDOMAIN or a number.
func parseRCode(s string) (domain.RCode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(domain.RCodeMask) {
			return 0, fieldErr("header.rcode", fmt.Errorf("%d does not fit in 4 bits", n))
		}
		return domain.RCode(n), nil
	}
	rc, ok := domain.ParseRCode(strings.ToUpper(s))
	if !ok {
		return 0, fieldErr("header.rcode", fmt.Errorf("unknown rcode %q", s))
	}
	return rc, nil
}

func parseType(field, s string) (domain.RRType, error) {
	t := domain.RRTypeFromString(s)
	if !t.IsValid() {
		return 0, fieldErr(field, fmt.Errorf("unknown record type %q", s))
	}
	return t, nil
}

func parseClass(field, s string) (domain.RRClass, error) {
	c := domain.ParseRRClass(s)
	if !c.IsValid() {
		return 0, fieldErr(field, fmt.Errorf("unknown class %q", s))
	}
	return c, nil
}

func uint16Field(field string, v int) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fieldErr(field, fmt.Errorf("%d out of range", v))
	}
	return uint16(v), nil
}

func fieldErr(field string, err error) error {
	return &domain.ConfigurationError{Field: field, Err: err}
}
