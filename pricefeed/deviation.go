package pricefeed

import (
	"github.com/shopspring/decimal"
)

const bpsPrecision int32 = 18

var bpsScale = decimal.NewFromInt(10000)

// DeviationBps returns |last - current| * 10000 / last
func DeviationBps(composedLast, composedCurrent decimal.Decimal) (decimal.Decimal, error) {
	if composedLast.IsZero() {
		return decimal.Zero, ErrDegenerateComposite
	}

	diff := composedLast.Sub(composedCurrent).Abs().Mul(bpsScale)

	return diff.DivRound(composedLast.Abs(), bpsPrecision), nil
}

// ExceedsDeviation reports whether the composite moved by at least thresholdBps
func ExceedsDeviation(composedLast, composedCurrent, thresholdBps decimal.Decimal) (bool, decimal.Decimal, error) {
	diffBps, err := DeviationBps(composedLast, composedCurrent)
	if err != nil {
		return false, decimal.Zero, err
	}

	return diffBps.GreaterThanOrEqual(thresholdBps), diffBps, nil
}
