package pricefeed

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of fractional digits kept by composite divisions
const divisionPrecision int32 = 36

// ValidateOperators checks every non-seed feed of an item for a supported operator
func ValidateOperators(item string, feeds []FeedReference) error {
	if len(feeds) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyItem, item)
	}

	for _, f := range feeds[1:] {
		if !f.Operator.Valid() {
			return fmt.Errorf("%w %q: item %s, feed %s", ErrInvalidOperator, f.Operator, item, NormalizeID(f.ID))
		}
	}

	return nil
}

// Compose folds the feeds of an item into a single value using the snapshots.
// The first feed seeds the composite, each following feed is multiplied or
// divided in configuration order.
func Compose(item string, feeds []FeedReference, snapshots SnapshotMap) (decimal.Decimal, error) {
	if err := ValidateOperators(item, feeds); err != nil {
		return decimal.Zero, err
	}

	var composite decimal.Decimal

	for i, f := range feeds {
		snap, ok := snapshots.Get(f.ID)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: item %s, feed %s", ErrMissingFeedSnapshot, item, NormalizeID(f.ID))
		}

		value := snap.Value()

		if i == 0 {
			composite = value

			continue
		}

		switch f.Operator {
		case OperatorMultiply:
			composite = composite.Mul(value)
		case OperatorDivide:
			if value.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: item %s, feed %s has zero value", ErrDegenerateComposite, item, NormalizeID(f.ID))
			}

			composite = composite.DivRound(value, divisionPrecision)
		}
	}

	return composite, nil
}
