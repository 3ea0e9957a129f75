package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/pythkeeper/config"
	"github.com/sljivkov/pythkeeper/storage"
)

func TestHermesPool(t *testing.T) {
	pool := &hermesPool{rps: 5}

	first, err := pool.get(&config.OracleConfig{PriceServiceEndpoint: "https://hermes.pyth.network"})
	require.NoError(t, err)

	again, err := pool.get(&config.OracleConfig{PriceServiceEndpoint: "https://hermes.pyth.network"})
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := pool.get(&config.OracleConfig{PriceServiceEndpoint: "https://hermes-beta.pyth.network"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestNewStorage_Memory(t *testing.T) {
	store, closeFn, err := newStorage(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, store)
	assert.NoError(t, closeFn())
}
