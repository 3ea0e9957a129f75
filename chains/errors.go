package chains

import "errors"

var (
	// ErrReadOnly indicates a submission attempt without a transactor.
	ErrReadOnly = errors.New("oracle is read-only, no private key configured")
	// ErrInvalidPublishTime indicates an on-chain publish time that does not fit int64.
	ErrInvalidPublishTime = errors.New("invalid on-chain publish time")
	// ErrMismatchedUpdate indicates update ids and publish times of different length.
	ErrMismatchedUpdate = errors.New("ids and publish times differ in length")
)
