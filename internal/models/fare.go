package models

import "math"

// Fare is a trip price in the operator's implicit currency.
// Amount is kept unrounded; use Rounded when presenting it.
type Fare struct {
	Amount float64
}

// Rounded returns the amount rounded to two fractional digits.
func (f Fare) Rounded() float64 {
	const cents = 100
	return math.Round(f.Amount*cents) / cents
}
