// Package apis provides the off-chain HTTP collaborators of the keeper
package apis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/sljivkov/pythkeeper/pricefeed"
)

// Hermes implements a price service using the Pyth Hermes API
type Hermes struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ pricefeed.PriceService = (*Hermes)(nil)

// NewHermes creates a new Hermes client allowing rps requests per second
func NewHermes(endpoint string, rps int) *Hermes {
	if rps <= 0 {
		rps = 1
	}

	return &Hermes{
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// get performs a rate limited GET of path with the feed ids as ids[] parameters
func (h *Hermes) get(ctx context.Context, path string, ids []string) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids[]", id)
	}

	fullURL := fmt.Sprintf("%s%s?%s", h.endpoint, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// LatestPrices fetches the latest price of every feed. Feeds without a
// price are left out of the result.
func (h *Hermes) LatestPrices(ctx context.Context, ids []string) (pricefeed.SnapshotMap, error) {
	body, err := h.get(ctx, "/api/latest_price_feeds", ids)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON response", ErrMalformedFeed)
	}

	prices := make(pricefeed.SnapshotMap, len(ids))

	var parseErr error

	gjson.ParseBytes(body).ForEach(func(_, feed gjson.Result) bool {
		id := feed.Get("id").String()
		price := feed.Get("price")

		if id == "" || !price.Exists() {
			return true
		}

		mantissa, err := strconv.ParseInt(price.Get("price").String(), 10, 64)
		if err != nil {
			parseErr = fmt.Errorf("%w: feed %s: %v", ErrMalformedFeed, id, err)

			return false
		}

		prices.Set(id, pricefeed.PriceSnapshot{
			Mantissa:    mantissa,
			Exponent:    int32(price.Get("expo").Int()),
			PublishTime: price.Get("publish_time").Int(),
		})

		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return prices, nil
}

// UpdateData fetches the signed update payloads (VAAs) for the feeds
func (h *Hermes) UpdateData(ctx context.Context, ids []string) ([][]byte, error) {
	body, err := h.get(ctx, "/api/latest_vaas", ids)
	if err != nil {
		return nil, err
	}

	var encoded []string
	if err := json.Unmarshal(body, &encoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	data := make([][]byte, 0, len(encoded))

	for _, vaa := range encoded {
		raw, err := base64.StdEncoding.DecodeString(vaa)
		if err != nil {
			return nil, fmt.Errorf("failed to decode update data: %w", err)
		}

		data = append(data, raw)
	}

	return data, nil
}
