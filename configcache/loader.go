// Package configcache loads the oracle config, reusing a stored copy until
// its refresh rate has elapsed.
package configcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sljivkov/pythkeeper/config"
	"github.com/sljivkov/pythkeeper/storage"
)

// Fetcher retrieves the raw config.yaml document
type Fetcher interface {
	FetchConfig(ctx context.Context, gistID string) (string, error)
}

// record is the value kept in storage
type record struct {
	Timestamp int64  `json:"timestamp"`
	Config    string `json:"config"`
}

// Source tells where a loaded config came from
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Loader loads the oracle config through the storage cache
type Loader struct {
	storage storage.Storage
	fetcher Fetcher
	gistID  string
	key     string
	now     func() time.Time
}

// NewLoader creates a Loader caching under key
func NewLoader(s storage.Storage, f Fetcher, gistID, key string) *Loader {
	return &Loader{
		storage: s,
		fetcher: f,
		gistID:  gistID,
		key:     key,
		now:     time.Now,
	}
}

// Load returns the oracle config and whether it was served from storage
func (l *Loader) Load(ctx context.Context) (*config.OracleConfig, Source, error) {
	cached, err := l.cached(ctx)
	if err != nil {
		return nil, "", err
	}

	if cached != nil {
		return cached, SourceCache, nil
	}

	raw, err := l.fetcher.FetchConfig(ctx, l.gistID)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.ParseOracleConfig([]byte(raw))
	if err != nil {
		return nil, "", err
	}

	value, err := json.Marshal(record{Timestamp: l.now().Unix(), Config: raw})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode config record: %w", err)
	}

	if err := l.storage.Set(ctx, l.key, string(value)); err != nil {
		return nil, "", fmt.Errorf("failed to store oracle config: %w", err)
	}

	return cfg, SourceRemote, nil
}

// cached returns the stored config while it is fresh, nil otherwise
func (l *Loader) cached(ctx context.Context) (*config.OracleConfig, error) {
	value, found, err := l.storage.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle config from storage: %w", err)
	}

	if !found || value == "" {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(value), &rec); err != nil || rec.Config == "" {
		// unreadable records are replaced by a fresh fetch
		return nil, nil
	}

	cfg, err := config.ParseOracleConfig([]byte(rec.Config))
	if err != nil {
		return nil, nil
	}

	age := l.now().Sub(time.Unix(rec.Timestamp, 0))
	if age > cfg.RefreshRate() {
		return nil, nil
	}

	return cfg, nil
}
