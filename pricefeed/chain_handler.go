package pricefeed

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Oracle defines the on-chain price oracle operations
type Oracle interface {
	// LastPrices returns the prices currently recorded on-chain
	LastPrices(ctx context.Context, ids []string) (SnapshotMap, error)

	// UpdateFee quotes the fee required to submit the update payloads
	UpdateFee(ctx context.Context, updateData [][]byte) (*big.Int, error)

	// EncodeUpdate builds the call data of an update transaction
	EncodeUpdate(updateData [][]byte, ids []string, publishTimes []uint64) ([]byte, error)

	// Address returns the oracle contract address
	Address() common.Address
}
