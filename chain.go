package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/sljivkov/pythkeeper/apis"
	"github.com/sljivkov/pythkeeper/chains"
	"github.com/sljivkov/pythkeeper/config"
	"github.com/sljivkov/pythkeeper/configcache"
	"github.com/sljivkov/pythkeeper/keeper"
	"github.com/sljivkov/pythkeeper/logging"
	"github.com/sljivkov/pythkeeper/pricefeed"
	"github.com/sljivkov/pythkeeper/storage"
)

const redisKeyPrefix = "pythkeeper:"

// App holds the keeper and the resources it was built from
type App struct {
	keeper  *keeper.Keeper
	closers []func() error
}

// Close releases the connections held by the app
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// hermesPool reuses the Hermes client while the configured endpoint is unchanged
type hermesPool struct {
	mu       sync.Mutex
	rps      int
	endpoint string
	client   *apis.Hermes
}

func (p *hermesPool) get(cfg *config.OracleConfig) (pricefeed.PriceService, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil || p.endpoint != cfg.PriceServiceEndpoint {
		p.endpoint = cfg.PriceServiceEndpoint
		p.client = apis.NewHermes(cfg.PriceServiceEndpoint, p.rps)
	}

	return p.client, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func() error, error) {
	if cfg.RedisAddr == "" {
		return storage.NewMemoryStorage(), func() error { return nil }, nil
	}

	client, err := storage.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}

	return storage.NewRedisStorage(client, redisKeyPrefix), client.Close, nil
}

// NewApp wires the keeper with its collaborators
func NewApp(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	store, closeStore, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	client, err := chains.Dial(ctx, cfg.RPCURL)
	if err != nil {
		_ = closeStore()

		return nil, err
	}

	var auth *bind.TransactOpts
	if cfg.CanSubmit() {
		if auth, err = chains.NewTransactor(ctx, client, cfg.PrivateKey); err != nil {
			client.Close()
			_ = closeStore()

			return nil, err
		}

		logger.Info("transaction submission enabled", "from", auth.From.Hex())
	}

	loader := configcache.NewLoader(store, apis.NewGistClient(cfg.GithubAPIURL, cfg.GithubToken), cfg.GistID, cfg.StorageKey)
	hermes := &hermesPool{rps: cfg.HermesRPS}

	newOracle := func(_ context.Context, oc *config.OracleConfig) (pricefeed.Oracle, error) {
		oracle, err := chains.NewPythOracle(client, oc.Address(), auth)
		if err != nil {
			return nil, err
		}

		return oracle, nil
	}

	k := keeper.New(cfg.GistID, loader, hermes.get, newOracle,
		keeper.WithLogger(logger),
		keeper.WithSubmit(cfg.CanSubmit()),
	)

	return &App{
		keeper: k,
		closers: []func() error{
			closeStore,
			func() error { client.Close(); return nil },
		},
	}, nil
}
