package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sljivkov/pythkeeper/pricefeed"
)

// FeedEntry is one feed of an item as written in config.yaml
type FeedEntry struct {
	ID     string `yaml:"id"     json:"id"`
	Action string `yaml:"action" json:"action,omitempty"`
}

// OracleConfig is the remotely hosted config.yaml
type OracleConfig struct {
	PythNetworkAddress         string                 `yaml:"pythNetworkAddress"         json:"pythNetworkAddress"`
	PriceServiceEndpoint       string                 `yaml:"priceServiceEndpoint"       json:"priceServiceEndpoint"`
	ValidTimePeriodSeconds     int64                  `yaml:"validTimePeriodSeconds"     json:"validTimePeriodSeconds"`
	DeviationThresholdBps      float64                `yaml:"deviationThresholdBps"      json:"deviationThresholdBps"`
	ConfigRefreshRateInSeconds int64                  `yaml:"configRefreshRateInSeconds" json:"configRefreshRateInSeconds"`
	Debug                      bool                   `yaml:"debug"                      json:"debug"`
	PriceIDs                   map[string][]FeedEntry `yaml:"priceIds"                   json:"priceIds"`
}

// ParseOracleConfig decodes and validates a config.yaml document
func ParseOracleConfig(data []byte) (*OracleConfig, error) {
	var cfg OracleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse oracle config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the structural shape of the config
func (c *OracleConfig) Validate() error {
	if !common.IsHexAddress(c.PythNetworkAddress) {
		return fmt.Errorf("%w: invalid pythNetworkAddress %q", ErrInvalidOracleConfig, c.PythNetworkAddress)
	}

	if _, err := url.ParseRequestURI(c.PriceServiceEndpoint); err != nil {
		return fmt.Errorf("%w: invalid priceServiceEndpoint %q", ErrInvalidOracleConfig, c.PriceServiceEndpoint)
	}

	if c.ValidTimePeriodSeconds < 0 {
		return fmt.Errorf("%w: validTimePeriodSeconds must not be negative", ErrInvalidOracleConfig)
	}

	if c.DeviationThresholdBps < 0 {
		return fmt.Errorf("%w: deviationThresholdBps must not be negative", ErrInvalidOracleConfig)
	}

	if c.ConfigRefreshRateInSeconds < 0 {
		return fmt.Errorf("%w: configRefreshRateInSeconds must not be negative", ErrInvalidOracleConfig)
	}

	if len(c.PriceIDs) == 0 {
		return fmt.Errorf("%w: no priceIds configured", ErrInvalidOracleConfig)
	}

	for item, feeds := range c.PriceIDs {
		if len(feeds) == 0 {
			return fmt.Errorf("%w: item %s has no feeds", ErrInvalidOracleConfig, item)
		}

		for i, f := range feeds {
			if f.ID == "" {
				return fmt.Errorf("%w: item %s has a feed without id", ErrInvalidOracleConfig, item)
			}

			if i > 0 && !pricefeed.Operator(f.Action).Valid() {
				return fmt.Errorf("%w: item %s feed %s has action %q", ErrInvalidOracleConfig, item, f.ID, f.Action)
			}
		}
	}

	return nil
}

// Items converts the configured price ids into normalized feed references
func (c *OracleConfig) Items() pricefeed.ItemConfig {
	items := make(pricefeed.ItemConfig, len(c.PriceIDs))

	for item, feeds := range c.PriceIDs {
		refs := make([]pricefeed.FeedReference, 0, len(feeds))
		for _, f := range feeds {
			refs = append(refs, pricefeed.FeedReference{
				ID:       pricefeed.NormalizeID(f.ID),
				Operator: pricefeed.Operator(f.Action),
			})
		}

		items[item] = refs
	}

	return items
}

// Thresholds returns the decision thresholds of the engine
func (c *OracleConfig) Thresholds() pricefeed.Thresholds {
	return pricefeed.Thresholds{
		ValidTimePeriodSeconds: c.ValidTimePeriodSeconds,
		DeviationThresholdBps:  decimal.NewFromFloat(c.DeviationThresholdBps),
	}
}

// RefreshRate returns how long a fetched config may be reused
func (c *OracleConfig) RefreshRate() time.Duration {
	return time.Duration(c.ConfigRefreshRateInSeconds) * time.Second
}

// Address returns the Pyth contract address
func (c *OracleConfig) Address() common.Address {
	return common.HexToAddress(c.PythNetworkAddress)
}
