package configcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/pythkeeper/storage"
)

const gistYAML = `
pythNetworkAddress: "0xff1a0f4744e8582DF1aE09D5611b887B6a12925C"
priceServiceEndpoint: "https://hermes.pyth.network"
validTimePeriodSeconds: 3600
deviationThresholdBps: 25
configRefreshRateInSeconds: 600
priceIds:
  ETH/USD:
    - id: "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace"
`

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchConfig(ctx context.Context, gistID string) (string, error) {
	args := m.Called(gistID)

	return args.String(0), args.Error(1)
}

func newTestLoader(s storage.Storage, f Fetcher, now time.Time) *Loader {
	l := NewLoader(s, f, "gist", "pythConfig")
	l.now = func() time.Time { return now }

	return l
}

func TestLoad_FetchesWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	f := new(mockFetcher)
	f.On("FetchConfig", "gist").Return(gistYAML, nil).Once()

	now := time.Unix(1_700_000_000, 0)
	cfg, source, err := newTestLoader(s, f, now).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, source)
	assert.Equal(t, int64(600), cfg.ConfigRefreshRateInSeconds)

	value, found, err := s.Get(ctx, "pythConfig")
	require.NoError(t, err)
	require.True(t, found)

	var rec record
	require.NoError(t, json.Unmarshal([]byte(value), &rec))
	assert.Equal(t, now.Unix(), rec.Timestamp)
	assert.Equal(t, gistYAML, rec.Config)

	f.AssertExpectations(t)
}

func TestLoad_RefreshRate(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name       string
		elapsed    time.Duration
		wantSource Source
	}{
		{name: "fresh", elapsed: 10 * time.Second, wantSource: SourceCache},
		{name: "exactly at refresh rate", elapsed: 600 * time.Second, wantSource: SourceCache},
		{name: "expired", elapsed: 601 * time.Second, wantSource: SourceRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStorage()
			value, _ := json.Marshal(record{Timestamp: start.Unix(), Config: gistYAML})
			require.NoError(t, s.Set(ctx, "pythConfig", string(value)))

			f := new(mockFetcher)
			f.On("FetchConfig", "gist").Return(gistYAML, nil).Maybe()

			_, source, err := newTestLoader(s, f, start.Add(tt.elapsed)).Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, source)

			if tt.wantSource == SourceCache {
				f.AssertNotCalled(t, "FetchConfig", "gist")
			} else {
				f.AssertNumberOfCalls(t, "FetchConfig", 1)
			}
		})
	}
}

func TestLoad_CorruptRecordIsRefetched(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(ctx, "pythConfig", "not json"))

	f := new(mockFetcher)
	f.On("FetchConfig", "gist").Return(gistYAML, nil).Once()

	_, source, err := newTestLoader(s, f, time.Now()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, source)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch failure", func(t *testing.T) {
		f := new(mockFetcher)
		f.On("FetchConfig", "gist").Return("", errors.New("rate limited")).Once()

		_, _, err := newTestLoader(storage.NewMemoryStorage(), f, time.Now()).Load(ctx)
		assert.Error(t, err)
	})

	t.Run("invalid yaml is not stored", func(t *testing.T) {
		s := storage.NewMemoryStorage()
		f := new(mockFetcher)
		f.On("FetchConfig", "gist").Return("priceIds: {}", nil).Once()

		_, _, err := newTestLoader(s, f, time.Now()).Load(ctx)
		assert.Error(t, err)

		_, found, _ := s.Get(ctx, "pythConfig")
		assert.False(t, found)
	})

	t.Run("storage failure", func(t *testing.T) {
		_, _, err := newTestLoader(failingStorage{}, new(mockFetcher), time.Now()).Load(ctx)
		assert.Error(t, err)
	})
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("storage down")
}

func (failingStorage) Set(context.Context, string, string) error {
	return fmt.Errorf("storage down")
}
