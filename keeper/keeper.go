// Package keeper runs one price update decision per invocation
package keeper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/sljivkov/pythkeeper/config"
	"github.com/sljivkov/pythkeeper/configcache"
	"github.com/sljivkov/pythkeeper/domain"
	"github.com/sljivkov/pythkeeper/logging"
	"github.com/sljivkov/pythkeeper/metrics"
	"github.com/sljivkov/pythkeeper/pricefeed"
)

// ConfigLoader provides the current oracle config
type ConfigLoader interface {
	Load(ctx context.Context) (*config.OracleConfig, configcache.Source, error)
}

// Submitter sends update transactions
type Submitter interface {
	CanSubmit() bool
	Submit(ctx context.Context, update domain.Update) (common.Hash, error)
}

// PriceServiceFactory builds the price service for a config
type PriceServiceFactory func(cfg *config.OracleConfig) (pricefeed.PriceService, error)

// OracleFactory builds the on-chain oracle for a config
type OracleFactory func(ctx context.Context, cfg *config.OracleConfig) (pricefeed.Oracle, error)

// Keeper decides on each Run whether Pyth prices have to be pushed on-chain
type Keeper struct {
	gistID          string
	loader          ConfigLoader
	newPriceService PriceServiceFactory
	newOracle       OracleFactory
	submit          bool
	logger          *logging.Logger

	mu      sync.RWMutex
	last    domain.Outcome
	readyCh chan struct{}
	once    sync.Once
}

// Option configures a Keeper
type Option func(*Keeper)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(k *Keeper) {
		k.logger = l
	}
}

// WithSubmit enables sending the update transaction when the oracle can sign
func WithSubmit(submit bool) Option {
	return func(k *Keeper) {
		k.submit = submit
	}
}

// New creates a Keeper
func New(gistID string, loader ConfigLoader, priceService PriceServiceFactory, oracle OracleFactory, opts ...Option) *Keeper {
	k := &Keeper{
		gistID:          gistID,
		loader:          loader,
		newPriceService: priceService,
		newOracle:       oracle,
		logger:          logging.NewNoopLogger(),
		readyCh:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Ready is closed once the first run has finished
func (k *Keeper) Ready() <-chan struct{} {
	return k.readyCh
}

// LastOutcome returns the outcome of the latest run
func (k *Keeper) LastOutcome() domain.Outcome {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return k.last
}

// Run performs one invocation. Failures never escape as errors, they turn
// into an outcome that abstains from action.
func (k *Keeper) Run(ctx context.Context) domain.Outcome {
	start := time.Now()
	log := k.logger.With("run_id", uuid.NewString())

	outcome := k.run(ctx, log)

	label := "abstain"
	if outcome.CanExec {
		label = "exec"
	}

	metrics.RecordRun(label, time.Since(start))
	log.Info("run finished", "can_exec", outcome.CanExec, "message", outcome.Message, "duration", time.Since(start).String())

	k.mu.Lock()
	k.last = outcome
	k.mu.Unlock()

	k.once.Do(func() { close(k.readyCh) })

	return outcome
}

func (k *Keeper) fail(log *logging.Logger, stage string, err error, format string, args ...interface{}) domain.Outcome {
	metrics.RecordError(stage)
	log.Error("run aborted", "stage", stage, "error", err)

	return domain.Abstain(format, args...)
}

func (k *Keeper) run(ctx context.Context, log *logging.Logger) domain.Outcome {
	if k.gistID == "" {
		return domain.Abstain("GIST_ID not set in secrets")
	}

	cfg, source, err := k.loader.Load(ctx)
	if err != nil {
		return k.fail(log, "config", err, "Error fetching gist: %v", err)
	}

	metrics.RecordConfigFetch(string(source))

	debug := func(msg string, fields ...interface{}) {
		if cfg.Debug {
			log.Info(msg, fields...)
		} else {
			log.Debug(msg, fields...)
		}
	}

	debug("oracle config loaded", "source", source, "config", cfg)

	items := cfg.Items()
	ids := items.FeedIDs()
	joined := strings.Join(ids, ",")

	priceService, err := k.newPriceService(cfg)
	if err != nil {
		return k.fail(log, "price_service", err, "Error creating price service: %v", err)
	}

	oracle, err := k.newOracle(ctx, cfg)
	if err != nil {
		return k.fail(log, "oracle", err, "Error connecting to oracle: %v", err)
	}

	debug("fetching current prices", "price_ids", ids)

	current, err := priceService.LatestPrices(ctx, ids)
	if err != nil {
		return k.fail(log, "current_prices", err, "Error fetching latest priceFeeds for priceIds: %s", joined)
	}

	if missing := current.Missing(ids); len(missing) > 0 {
		metrics.RecordError("current_prices")
		log.Error("missing latest price feed info", "missing", missing)

		return domain.Abstain("Not all prices available")
	}

	last, err := oracle.LastPrices(ctx, ids)
	if err != nil {
		return k.fail(log, "last_prices", err, "Error fetching last prices from chain: %v", err)
	}

	debug("prices fetched", "current", current, "last", last)

	report, err := pricefeed.Evaluate(items, current, last, cfg.Thresholds())
	if err != nil {
		return k.fail(log, "evaluate", err, "Error evaluating price updates: %v", err)
	}

	for _, d := range report.Decisions {
		metrics.RecordDecision(d.Item, string(d.Reason))
		debug("item evaluated",
			"item", d.Item,
			"reason", d.Reason,
			"composed_price_ids", d.FeedIDs,
			"composed_price_diff", d.DiffBps.String(),
			"price_exceeds_diff", d.Triggered(),
		)
	}

	toUpdate := report.Updates.IDs()
	if len(toUpdate) == 0 {
		return domain.Abstain("No conditions met for price initialization or update for priceIds: %s", joined)
	}

	metrics.RecordScheduled(len(toUpdate))

	return k.prepare(ctx, log, priceService, oracle, current, toUpdate)
}

// prepare builds the update transaction for the ids and submits it when enabled
func (k *Keeper) prepare(
	ctx context.Context,
	log *logging.Logger,
	priceService pricefeed.PriceService,
	oracle pricefeed.Oracle,
	current pricefeed.SnapshotMap,
	ids []string,
) domain.Outcome {
	publishTimes := make([]uint64, len(ids))

	for i, id := range ids {
		snap, _ := current.Get(id)
		publishTimes[i] = uint64(snap.PublishTime)
	}

	updateData, err := priceService.UpdateData(ctx, ids)
	if err != nil {
		return k.fail(log, "update_data", err, "Error fetching price update data: %v", err)
	}

	fee, err := oracle.UpdateFee(ctx, updateData)
	if err != nil {
		return k.fail(log, "fee", err, "Error quoting update fee: %v", err)
	}

	callData, err := oracle.EncodeUpdate(updateData, ids, publishTimes)
	if err != nil {
		return k.fail(log, "encode", err, "Error encoding update: %v", err)
	}

	log.Info("price update required", "price_ids", ids, "fee", fee.String())

	outcome := domain.Outcome{
		CanExec: true,
		CallData: []domain.CallData{{
			To:    oracle.Address(),
			Data:  callData,
			Value: fee,
		}},
	}

	submitter, ok := oracle.(Submitter)
	if !k.submit || !ok || !submitter.CanSubmit() {
		return outcome
	}

	hash, err := submitter.Submit(ctx, domain.Update{
		Data:         updateData,
		IDs:          ids,
		PublishTimes: publishTimes,
		Fee:          fee,
	})
	if err != nil {
		metrics.RecordError("submit")
		log.Error("update submission failed", "error", err)
		outcome.Message = fmt.Sprintf("Error submitting update: %v", err)

		return outcome
	}

	log.Info("update submitted", "tx", hash.Hex())
	outcome.TxHash = hash.Hex()

	return outcome
}
