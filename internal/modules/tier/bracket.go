// README: Inclusive bracket lookup shared by distance bands, weight tiers and package pricing.
package tier

import "github.com/shopspring/decimal"

// Bracket is a closed numeric range [min, max].
type Bracket interface {
	Bounds() (min, max decimal.Decimal)
}

// Rect is a weight × distance rectangle, both ranges closed.
type Rect interface {
	WeightBounds() (min, max decimal.Decimal)
	DistanceBounds() (min, max decimal.Decimal)
}

// Range is a plain Bracket, handy for tests and ad-hoc tables.
type Range struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r Range) Bounds() (decimal.Decimal, decimal.Decimal) { return r.Min, r.Max }

func contains(min, max, v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(min) && v.LessThanOrEqual(max)
}

// Find returns the first bracket, in table order, with min <= value <= max.
// Tables are expected not to overlap; when they do, the earlier row wins.
func Find[B Bracket](value decimal.Decimal, brackets []B) (B, bool) {
	for _, b := range brackets {
		min, max := b.Bounds()
		if contains(min, max, value) {
			return b, true
		}
	}
	var zero B
	return zero, false
}

// FindRect returns the first row whose weight and distance ranges both contain the inputs.
func FindRect[R Rect](weight, distance decimal.Decimal, rows []R) (R, bool) {
	for _, r := range rows {
		wMin, wMax := r.WeightBounds()
		dMin, dMax := r.DistanceBounds()
		if contains(wMin, wMax, weight) && contains(dMin, dMax, distance) {
			return r, true
		}
	}
	var zero R
	return zero, false
}
