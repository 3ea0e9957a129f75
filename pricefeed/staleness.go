package pricefeed

import "fmt"

// IsStale reports whether any feed of the item has a current publish time
// more than validTimePeriodSeconds ahead of the last recorded one.
func IsStale(item string, feeds []FeedReference, current, last SnapshotMap, validTimePeriodSeconds int64) (bool, error) {
	stale := false

	for _, f := range feeds {
		cur, ok := current.Get(f.ID)
		if !ok {
			return false, fmt.Errorf("%w: item %s, feed %s in current prices", ErrMissingFeedSnapshot, item, NormalizeID(f.ID))
		}

		prev, ok := last.Get(f.ID)
		if !ok {
			return false, fmt.Errorf("%w: item %s, feed %s in last prices", ErrMissingFeedSnapshot, item, NormalizeID(f.ID))
		}

		if cur.PublishTime-prev.PublishTime > validTimePeriodSeconds {
			stale = true
		}
	}

	return stale, nil
}
