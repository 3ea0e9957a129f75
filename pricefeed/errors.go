package pricefeed

import "errors"

var (
	// ErrMissingFeedSnapshot indicates a referenced feed has no snapshot.
	ErrMissingFeedSnapshot = errors.New("missing feed snapshot")
	// ErrInvalidOperator indicates an unsupported combination operator.
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrDegenerateComposite indicates a composite that cannot be used as a divisor.
	ErrDegenerateComposite = errors.New("degenerate composite")
	// ErrEmptyItem indicates an item without feeds.
	ErrEmptyItem = errors.New("item has no feeds")
)
