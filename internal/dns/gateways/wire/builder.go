package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/haukened/fixed-dns/internal/dns/common/log"
	"github.com/haukened/fixed-dns/internal/dns/domain"
)

// ResponseBuilder turns a raw request and a response configuration into
// the bytes sent back to the client.
type ResponseBuilder interface {
	BuildResponse(request []byte, cfg domain.ResponseConfig) ([]byte, error)
}

// MessageBuilder builds complete DNS responses: header, one question and one
// answer record. It holds no per-message state and is safe for concurrent use.
type MessageBuilder struct {
	logger log.Logger
}

// NewMessageBuilder creates a MessageBuilder that logs encoding steps at debug level.
func NewMessageBuilder(logger log.Logger) *MessageBuilder {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &MessageBuilder{logger: logger}
}

// ResolveID returns the transaction id carried by request, or fallback when
// request is too short to hold one.
func ResolveID(request []byte, fallback uint16) uint16 {
	id, err := TransactionID(request)
	if err != nil {
		return fallback
	}
	return id
}

// BuildResponse serializes header ++ question ++ answer. The header id is
// echoed from request when it carries one, otherwise cfg.Header.ID is used.
// Nothing is returned on error.
func (b *MessageBuilder) BuildResponse(request []byte, cfg domain.ResponseConfig) ([]byte, error) {
	header := cfg.Header
	header.ID = ResolveID(request, cfg.Header.ID)

	question, err := encodeQuestion(cfg.Question)
	if err != nil {
		return nil, fmt.Errorf("encoding question: %w", err)
	}
	answer, err := encodeAnswer(cfg.Answer)
	if err != nil {
		return nil, fmt.Errorf("encoding answer: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(question) + len(answer))
	buf.Write(EncodeHeader(header))

	b.logger.Debug(map[string]any{
		"step":  "header_written",
		"id":    header.ID,
		"flags": fmt.Sprintf("%#04x", PackFlags(header)),
		"qd":    header.QDCount,
		"an":    header.ANCount,
	}, "Wrote DNS response header")

	buf.Write(question)

	b.logger.Debug(map[string]any{
		"step":  "question_written",
		"name":  cfg.Question.Name.String(),
		"type":  cfg.Question.Type.String(),
		"class": cfg.Question.Class.String(),
	}, "Wrote question section")

	buf.Write(answer)

	b.logger.Debug(map[string]any{
		"step":  "answer_written",
		"name":  cfg.Answer.Name.String(),
		"type":  cfg.Answer.Type.String(),
		"class": cfg.Answer.Class.String(),
		"ttl":   cfg.Answer.TTL,
		"dlen":  len(cfg.Answer.Data),
	}, "Wrote answer record")

	return buf.Bytes(), nil
}

// encodeQuestion writes name + qtype + qclass.
func encodeQuestion(q domain.Question) ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(name)+4)
	out = append(out, name...)
	out = binary.BigEndian.AppendUint16(out, uint16(q.Type))
	out = binary.BigEndian.AppendUint16(out, uint16(q.Class))
	return out, nil
}

// encodeAnswer writes name + type + class + ttl + rdlength + rdata.
func encodeAnswer(rr domain.ResourceRecord) ([]byte, error) {
	name, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}
	dataLen := len(rr.Data)
	if dataLen > 0xFFFF {
		return nil, fmt.Errorf("resource record data too large: %d bytes (max 65535)", dataLen)
	}
	out := make([]byte, 0, len(name)+10+dataLen)
	out = append(out, name...)
	out = binary.BigEndian.AppendUint16(out, uint16(rr.Type))
	out = binary.BigEndian.AppendUint16(out, uint16(rr.Class))
	out = binary.BigEndian.AppendUint32(out, rr.TTL)
	out = binary.BigEndian.AppendUint16(out, uint16(dataLen))
	out = append(out, rr.Data...)
	return out, nil
}

var _ ResponseBuilder = (*MessageBuilder)(nil)
