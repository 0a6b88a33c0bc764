package domain

// Defaults for the fixed answer when nothing else is configured.
const (
	DefaultID      uint16 = 1234
	DefaultName           = "codecrafters.io"
	DefaultAddress        = "8.8.8.8"
	DefaultTTL     uint32 = 60
)

// ResponseConfig is everything needed to build one reply: the header, the
// question echoed back, and the single answer. Build it once with
// NewResponseConfig and pass it by value.
type ResponseConfig struct {
	Header   Header
	Question Question
	Answer   ResourceRecord
}

// NewResponseConfig validates all three parts and returns the combined value.
// The answer's data slice is copied so later changes by the caller do not leak in.
func NewResponseConfig(header Header, question Question, answer ResourceRecord) (ResponseConfig, error) {
	answer.Data = append([]byte(nil), answer.Data...)
	answer.Name = append(DomainName(nil), answer.Name...)
	question.Name = append(DomainName(nil), question.Name...)
	cfg := ResponseConfig{Header: header, Question: question, Answer: answer}
	if err := cfg.Validate(); err != nil {
		return ResponseConfig{}, err
	}
	return cfg, nil
}

// DefaultResponseConfig returns the stock reply: a response header with one
// question and one answer, both for codecrafters.io, answering 8.8.8.8.
func DefaultResponseConfig() ResponseConfig {
	q, err := NewQuestion(DefaultName, RRTypeA, RRClassIN)
	if err != nil {
		panic(err)
	}
	a, err := NewARecord(DefaultName, RRClassIN, DefaultTTL, DefaultAddress)
	if err != nil {
		panic(err)
	}
	cfg, err := NewResponseConfig(Header{
		ID:      DefaultID,
		QR:      true,
		QDCount: 1,
		ANCount: 1,
	}, q, a)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks the header, question and answer in that order.
func (c ResponseConfig) Validate() error {
	if err := c.Header.Validate(); err != nil {
		return err
	}
	if err := c.Question.Validate(); err != nil {
		return err
	}
	return c.Answer.Validate()
}

// WithID returns a copy of c carrying a different transaction id.
func (c ResponseConfig) WithID(id uint16) ResponseConfig {
	c.Header.ID = id
	return c
}
