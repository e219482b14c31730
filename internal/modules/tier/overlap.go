package tier

import "github.com/shopspring/decimal"

// Conflict identifies two rows of one table whose ranges intersect.
// First and Second are indexes into the table, First < Second.
type Conflict struct {
	First  int
	Second int
}

func intersects(aMin, aMax, bMin, bMax decimal.Decimal) bool {
	return aMin.LessThanOrEqual(bMax) && bMin.LessThanOrEqual(aMax)
}

// Overlaps lists every pair of brackets that share at least one value.
// Adjacent brackets sharing a boundary (e.g. [0,10] and [10,20]) count as overlapping
// because both are inclusive.
func Overlaps[B Bracket](brackets []B) []Conflict {
	var out []Conflict
	for i := 0; i < len(brackets); i++ {
		aMin, aMax := brackets[i].Bounds()
		for j := i + 1; j < len(brackets); j++ {
			bMin, bMax := brackets[j].Bounds()
			if intersects(aMin, aMax, bMin, bMax) {
				out = append(out, Conflict{First: i, Second: j})
			}
		}
	}
	return out
}

// RectOverlaps lists every pair of rectangles that intersect in both dimensions.
func RectOverlaps[R Rect](rows []R) []Conflict {
	var out []Conflict
	for i := 0; i < len(rows); i++ {
		awMin, awMax := rows[i].WeightBounds()
		adMin, adMax := rows[i].DistanceBounds()
		for j := i + 1; j < len(rows); j++ {
			bwMin, bwMax := rows[j].WeightBounds()
			bdMin, bdMax := rows[j].DistanceBounds()
			if intersects(awMin, awMax, bwMin, bwMax) && intersects(adMin, adMax, bdMin, bdMax) {
				out = append(out, Conflict{First: i, Second: j})
			}
		}
	}
	return out
}

// Inverted reports the indexes of brackets whose min exceeds max.
func Inverted[B Bracket](brackets []B) []int {
	var out []int
	for i, b := range brackets {
		min, max := b.Bounds()
		if min.GreaterThan(max) {
			out = append(out, i)
		}
	}
	return out
}

// RectInverted reports the indexes of rectangles inverted in either dimension.
func RectInverted[R Rect](rows []R) []int {
	var out []int
	for i, r := range rows {
		wMin, wMax := r.WeightBounds()
		dMin, dMax := r.DistanceBounds()
		if wMin.GreaterThan(wMax) || dMin.GreaterThan(dMax) {
			out = append(out, i)
		}
	}
	return out
}
