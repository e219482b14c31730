// README: Fee breakdown and surge adjustment value types.
package pricing

import (
	"github.com/shopspring/decimal"

	"rateline/internal/modules/ruletable"
)

type Direction string

const (
	DirectionNone     Direction = ""
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Adjustment is a percentage applied to the pre-surge subtotal.
type Adjustment struct {
	Direction Direction
	Percent   decimal.Decimal
	SurgeID   int64
}

// NoSurge leaves the subtotal unchanged.
var NoSurge = Adjustment{}

// SurgeAdjustment converts a surge row. Increase wins if both percents are set;
// validation flags such rows.
func SurgeAdjustment(s ruletable.Surge) Adjustment {
	switch {
	case s.IncreasePercent.IsPositive():
		return Adjustment{Direction: DirectionIncrease, Percent: s.IncreasePercent, SurgeID: s.ID}
	case s.DecreasePercent.IsPositive():
		return Adjustment{Direction: DirectionDecrease, Percent: s.DecreasePercent, SurgeID: s.ID}
	default:
		return Adjustment{SurgeID: s.ID}
	}
}

// Amount is the signed change the adjustment makes to subtotal.
func (a Adjustment) Amount(subtotal decimal.Decimal) decimal.Decimal {
	delta := subtotal.Mul(a.Percent).Div(hundred)
	switch a.Direction {
	case DirectionIncrease:
		return delta
	case DirectionDecrease:
		return delta.Neg()
	default:
		return decimal.Zero
	}
}

// Breakdown lists every fee component. Total is exact; Presented is Total
// rounded half-up to whole currency units.
type Breakdown struct {
	Base      decimal.Decimal `json:"base"`
	Pickup    decimal.Decimal `json:"pickup"`
	LastMile  decimal.Decimal `json:"last_mile"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Surge     decimal.Decimal `json:"surge"`
	Total     decimal.Decimal `json:"total"`
	Presented decimal.Decimal `json:"presented"`
}

var hundred = decimal.NewFromInt(100)
