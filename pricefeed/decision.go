package pricefeed

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Reason explains why an item was or was not scheduled for update
type Reason string

const (
	ReasonNone       Reason = "none"
	ReasonStale      Reason = "stale"
	ReasonDeviation  Reason = "deviation"
	ReasonDegenerate Reason = "degenerate"
)

// Thresholds bound how old and how far off an on-chain price may be
type Thresholds struct {
	ValidTimePeriodSeconds int64
	DeviationThresholdBps  decimal.Decimal
}

// Decision records the outcome for a single item
type Decision struct {
	Item            string
	Reason          Reason
	FeedIDs         []string
	ComposedCurrent decimal.Decimal
	ComposedLast    decimal.Decimal
	DiffBps         decimal.Decimal
}

// Triggered reports whether the item's feeds were added to the update set
func (d Decision) Triggered() bool {
	return d.Reason != ReasonNone
}

// Report is the result of one evaluation
type Report struct {
	Updates   *UpdateSet
	Decisions []Decision
}

// Evaluate runs the staleness and deviation checks for every item and
// collects the feeds that need an update. Items are visited in sorted
// name order. A missing snapshot or invalid operator aborts the whole
// evaluation; a degenerate composite schedules the item for update.
func Evaluate(items ItemConfig, current, last SnapshotMap, th Thresholds) (*Report, error) {
	report := &Report{
		Updates:   NewUpdateSet(),
		Decisions: make([]Decision, 0, len(items)),
	}

	for _, name := range items.Names() {
		decision, err := evaluateItem(name, items[name], current, last, th)
		if err != nil {
			return nil, err
		}

		if decision.Triggered() {
			report.Updates.Add(decision.FeedIDs...)
		}

		report.Decisions = append(report.Decisions, decision)
	}

	return report, nil
}

func evaluateItem(name string, feeds []FeedReference, current, last SnapshotMap, th Thresholds) (Decision, error) {
	decision := Decision{Item: name, Reason: ReasonNone, FeedIDs: ItemFeedIDs(feeds)}

	if err := ValidateOperators(name, feeds); err != nil {
		return decision, err
	}

	stale, err := IsStale(name, feeds, current, last, th.ValidTimePeriodSeconds)
	if err != nil {
		return decision, err
	}

	if stale {
		decision.Reason = ReasonStale

		return decision, nil
	}

	if decision.ComposedCurrent, err = Compose(name, feeds, current); err != nil {
		return degenerateOr(decision, err)
	}

	if decision.ComposedLast, err = Compose(name, feeds, last); err != nil {
		return degenerateOr(decision, err)
	}

	exceeds, diffBps, err := ExceedsDeviation(decision.ComposedLast, decision.ComposedCurrent, th.DeviationThresholdBps)
	if err != nil {
		return degenerateOr(decision, fmt.Errorf("%w: item %s, last composite is zero", err, name))
	}

	decision.DiffBps = diffBps
	if exceeds {
		decision.Reason = ReasonDeviation
	}

	return decision, nil
}

// degenerateOr turns a degenerate composite into an update decision and
// passes every other error through.
func degenerateOr(decision Decision, err error) (Decision, error) {
	if errors.Is(err, ErrDegenerateComposite) {
		decision.Reason = ReasonDegenerate

		return decision, nil
	}

	return decision, err
}

// ComputeUpdateSet returns the deduplicated feed ids that need an update
func ComputeUpdateSet(items ItemConfig, current, last SnapshotMap, validTimePeriodSeconds int64, deviationThresholdBps decimal.Decimal) ([]string, error) {
	report, err := Evaluate(items, current, last, Thresholds{
		ValidTimePeriodSeconds: validTimePeriodSeconds,
		DeviationThresholdBps:  deviationThresholdBps,
	})
	if err != nil {
		return nil, err
	}

	return report.Updates.IDs(), nil
}
