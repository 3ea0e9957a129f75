// Package chains provides blockchain interaction implementations
package chains

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/errgroup"

	"github.com/sljivkov/pythkeeper/contract"
	"github.com/sljivkov/pythkeeper/domain"
	"github.com/sljivkov/pythkeeper/pricefeed"
)

// priceFeedNotFoundSelector is the selector of the PriceFeedNotFound() revert
const priceFeedNotFoundSelector = "0x14aebe68"

const defaultReadConcurrency = 8

// PythContract is the subset of the Pyth binding used by PythOracle
type PythContract interface {
	GetPriceUnsafe(opts *bind.CallOpts, id [32]byte) (contract.PythStructsPrice, error)
	GetUpdateFee(opts *bind.CallOpts, updateData [][]byte) (*big.Int, error)
	UpdatePriceFeedsIfNecessary(opts *bind.TransactOpts, updateData [][]byte, priceIds [][32]byte, publishTimes []uint64) (*types.Transaction, error)
}

// PythOracle reads and updates prices of a Pyth contract
type PythOracle struct {
	contract    PythContract
	address     common.Address
	auth        *bind.TransactOpts
	concurrency int
}

var _ pricefeed.Oracle = (*PythOracle)(nil)

// NewPythOracle binds the Pyth contract at address. auth may be nil for a
// read-only oracle.
func NewPythOracle(backend bind.ContractBackend, address common.Address, auth *bind.TransactOpts) (*PythOracle, error) {
	pyth, err := contract.NewPyth(address, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to bind pyth contract: %w", err)
	}

	return &PythOracle{
		contract:    pyth,
		address:     address,
		auth:        auth,
		concurrency: defaultReadConcurrency,
	}, nil
}

// Address returns the oracle contract address
func (o *PythOracle) Address() common.Address {
	return o.address
}

// LastPrices reads the price recorded on-chain for every id. Feeds that were
// never pushed to the contract come back as a zero snapshot published at 0.
func (o *PythOracle) LastPrices(ctx context.Context, ids []string) (pricefeed.SnapshotMap, error) {
	snapshots := make([]pricefeed.PriceSnapshot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			snap, err := o.lastPrice(gctx, id)
			if err != nil {
				return err
			}

			snapshots[i] = snap

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	prices := make(pricefeed.SnapshotMap, len(ids))
	for i, id := range ids {
		prices.Set(id, snapshots[i])
	}

	return prices, nil
}

func (o *PythOracle) lastPrice(ctx context.Context, id string) (pricefeed.PriceSnapshot, error) {
	price, err := o.contract.GetPriceUnsafe(&bind.CallOpts{Context: ctx}, common.HexToHash(pricefeed.NormalizeID(id)))
	if err != nil {
		if isPriceFeedNotFound(err) {
			return pricefeed.PriceSnapshot{}, nil
		}

		return pricefeed.PriceSnapshot{}, fmt.Errorf("failed to read on-chain price of %s: %w", id, err)
	}

	if price.PublishTime == nil || !price.PublishTime.IsInt64() {
		return pricefeed.PriceSnapshot{}, fmt.Errorf("%w: feed %s", ErrInvalidPublishTime, id)
	}

	return pricefeed.PriceSnapshot{
		Mantissa:    price.Price,
		Exponent:    price.Expo,
		PublishTime: price.PublishTime.Int64(),
	}, nil
}

// isPriceFeedNotFound reports whether the call reverted because the feed does not exist yet
func isPriceFeedNotFound(err error) bool {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return false
	}

	data, ok := dataErr.ErrorData().(string)

	return ok && strings.HasPrefix(strings.ToLower(data), priceFeedNotFoundSelector)
}

// UpdateFee quotes the fee of submitting updateData
func (o *PythOracle) UpdateFee(ctx context.Context, updateData [][]byte) (*big.Int, error) {
	fee, err := o.contract.GetUpdateFee(&bind.CallOpts{Context: ctx}, updateData)
	if err != nil {
		return nil, fmt.Errorf("failed to quote update fee: %w", err)
	}

	return fee, nil
}

// EncodeUpdate builds the updatePriceFeedsIfNecessary call data
func (o *PythOracle) EncodeUpdate(updateData [][]byte, ids []string, publishTimes []uint64) ([]byte, error) {
	if len(ids) != len(publishTimes) {
		return nil, ErrMismatchedUpdate
	}

	data, err := contract.PackUpdatePriceFeedsIfNecessary(updateData, toHashes(ids), publishTimes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	return data, nil
}

// CanSubmit reports whether the oracle holds a transactor
func (o *PythOracle) CanSubmit() bool {
	return o.auth != nil
}

// Submit sends the update transaction paying the quoted fee
func (o *PythOracle) Submit(ctx context.Context, update domain.Update) (common.Hash, error) {
	if o.auth == nil {
		return common.Hash{}, ErrReadOnly
	}

	if len(update.IDs) != len(update.PublishTimes) {
		return common.Hash{}, ErrMismatchedUpdate
	}

	opts := *o.auth
	opts.Context = ctx
	opts.Value = update.Fee

	tx, err := o.contract.UpdatePriceFeedsIfNecessary(&opts, update.Data, toHashes(update.IDs), update.PublishTimes)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to submit update: %w", err)
	}

	return tx.Hash(), nil
}

func toHashes(ids []string) [][32]byte {
	hashes := make([][32]byte, len(ids))
	for i, id := range ids {
		hashes[i] = common.HexToHash(pricefeed.NormalizeID(id))
	}

	return hashes
}
