package domain

import "fmt"

// Question is the single entry of a message's question section.
type Question struct {
	Name  DomainName
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question from presentation text and validates it.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	n, err := ParseDomainName(name)
	if err != nil {
		return Question{}, configErr("question.name", err)
	}
	q := Question{Name: n, Type: rrtype, Class: class}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally and semantically valid.
func (q Question) Validate() error {
	if err := q.Name.Validate(); err != nil {
		return configErr("question.name", err)
	}
	if !q.Type.IsValid() {
		return configErr("question.type", fmt.Errorf("unsupported RRType: %d", q.Type))
	}
	if !q.Class.IsValid() {
		return configErr("question.class", fmt.Errorf("unsupported RRClass: %d", q.Class))
	}
	return nil
}
