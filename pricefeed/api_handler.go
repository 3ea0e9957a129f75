package pricefeed

import "context"

// PriceService provides fresh off-chain prices and the signed update payloads for them
type PriceService interface {
	// LatestPrices returns the latest snapshot of every requested feed it knows about
	LatestPrices(ctx context.Context, ids []string) (SnapshotMap, error)

	// UpdateData returns the update payloads to submit on-chain for the feeds
	UpdateData(ctx context.Context, ids []string) ([][]byte, error)
}
