// Package calculator holds the pure money arithmetic: splitting utility
// bills between tenants and summing invoice balances.
package calculator

import (
	"errors"
	"math"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Share is the part of a bill one participant owes.
type Share struct {
	ParticipantID string
	Amount        float64
}

// toCents rounds an amount to whole cents.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// SplitEvenly divides total between participants in whole cents. The cents
// that do not divide evenly go one each to the first participants, so the
// shares always add up to the rounded total.
func SplitEvenly(total float64, participants []string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if total < 0 {
		return nil, ErrNegativeAmount
	}

	cents := toCents(total)
	n := int64(len(participants))
	base, rem := cents/n, cents%n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		c := base
		if int64(i) < rem {
			c++
		}
		shares[i] = Share{ParticipantID: p, Amount: fromCents(c)}
	}
	return shares, nil
}
