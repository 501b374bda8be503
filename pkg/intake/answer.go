package intake

import (
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind tags the variants of AnswerValue.
type AnswerKind int

const (
	// AnswerNone is the zero value: the field has not been answered.
	AnswerNone AnswerKind = iota
	// AnswerText holds a free-form string answer.
	AnswerText
	// AnswerNumber holds a numeric answer kept in its raw string form so the
	// exact user input survives redisplay. Coercion happens once, centrally,
	// at submission time via Float.
	AnswerNumber
)

// AnswerValue is the tagged union stored per bound field. The zero value is
// the None variant.
type AnswerValue struct {
	kind AnswerKind
	raw  string
}

// TextAnswer wraps a string answer.
func TextAnswer(value string) AnswerValue {
	return AnswerValue{kind: AnswerText, raw: value}
}

// NumberAnswer wraps a numeric answer, raw until submit.
func NumberAnswer(raw string) AnswerValue {
	return AnswerValue{kind: AnswerNumber, raw: raw}
}

// Kind returns the variant tag.
func (a AnswerValue) Kind() AnswerKind {
	return a.kind
}

// Raw returns the exact user input.
func (a AnswerValue) Raw() string {
	return a.raw
}

// Empty reports whether the answer is absent or whitespace-only.
func (a AnswerValue) Empty() bool {
	return a.kind == AnswerNone || strings.TrimSpace(a.raw) == ""
}

// Float coerces the raw input to a decimal number.
func (a AnswerValue) Float() (float64, error) {
	trimmed := strings.TrimSpace(a.raw)
	if trimmed == "" {
		return 0, fmt.Errorf("intake: empty numeric answer")
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("intake: parse number %q: %w", a.raw, err)
	}
	return value, nil
}
