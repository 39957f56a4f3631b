package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// RateTable maps a currency code to its exchange rate. It is rebuilt on
// every fetch and never cached across requests.
type RateTable map[string]float64

// CurrencyChoice is a (code, display label) pair offered to the caller,
// in the order the rate service listed the currencies.
type CurrencyChoice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// NewCurrencyChoice builds the display label "CODE (rate)", e.g. "USD (1.15)".
func NewCurrencyChoice(code string, rate float64) CurrencyChoice {
	return CurrencyChoice{Code: code, Label: fmt.Sprintf("%s (%s)", code, FormatRate(rate))}
}

// FormatRate renders a rate with its shortest decimal form, keeping a
// trailing ".0" for integral rates so "EUR (1.0)" stays distinguishable
// from a currency code suffix.
func FormatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Conversion is the context handed back to the presentation layer after a
// conversion attempt. Exchanged is nil when the requested currency has no
// rate; in that case Amount and Currency still echo the request.
type Conversion struct {
	Choices   []CurrencyChoice `json:"currency_choices"`
	Amount    *float64         `json:"amount"`
	Currency  *string          `json:"currency"`
	Exchanged *float64         `json:"exchanged_amount"`
}

// EmptyConversion returns a fresh empty-state value: no rates or no usable
// amount, nothing to show. A new value is built per call so callers never
// share a mutable sentinel.
func EmptyConversion() Conversion {
	return Conversion{Choices: []CurrencyChoice{}}
}

// IsEmpty reports whether the conversion is the empty state.
func (c Conversion) IsEmpty() bool {
	return len(c.Choices) == 0 && c.Amount == nil && c.Currency == nil && c.Exchanged == nil
}
