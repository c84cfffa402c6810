// Package currency converts and formats money using an exchange-rate table
// quoted against the Romanian leu.
package currency

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// Base is the currency every rate is quoted against.
const Base = "RON"

// ErrUnknownCurrency is returned when a code is not in the rate table.
var ErrUnknownCurrency = errors.New("unknown currency")

// Rates is a snapshot of how many RON one unit of each currency is worth.
// A Rates value is never mutated after construction.
type Rates struct {
	Values    map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`

	// Fallback is set when the table is the built-in approximation.
	Fallback bool `json:"fallback"`
}

// FallbackRates returns the approximate table used when fetching fails.
func FallbackRates() Rates {
	return Rates{
		Values: map[string]float64{
			"USD": 4.56,
			"EUR": 4.97,
			"GBP": 5.8,
			"RON": 1,
		},
		Fallback: true,
	}
}

// Normalize upper-cases and validates an ISO 4217 code.
func Normalize(code string) (string, error) {
	u, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return u.String(), nil
}

// Rate returns the RON value of one unit of code.
func (r Rates) Rate(code string) (float64, error) {
	if code == Base {
		return 1, nil
	}
	v, ok := r.Values[code]
	if !ok || v <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return v, nil
}

// Convert converts amount from one currency to another through RON.
// It is the identity when from and to are the same code.
func (r Rates) Convert(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	inBase := amount
	if from != Base {
		rate, err := r.Rate(from)
		if err != nil {
			return 0, err
		}
		inBase = amount * rate
	}

	if to == Base {
		return inBase, nil
	}
	rate, err := r.Rate(to)
	if err != nil {
		return 0, err
	}
	return inBase / rate, nil
}
