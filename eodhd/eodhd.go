// Package eodhd implements a price oracle backed by the EOD Historical Data
// API (https://eodhd.com). Prices are fetched once per asset and served from
// memory; HTTP responses are additionally cached on disk so repeated CLI runs
// within a day do not burn through the API quota.
package eodhd

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

const defaultBaseURL = "https://eodhd.com/api"

// Provider fetches end-of-day prices from EODHD and serves them as a
// tracker.PriceOracle. It is safe for concurrent use.
type Provider struct {
	apiKey   string
	currency string
	base     string
	client   *http.Client

	mu        sync.RWMutex
	tickers   map[string]string // assetID -> EODHD ticker ("AAPL.US")
	histories map[string][]tracker.PricePoint
	current   map[string]tracker.Money
}

// NewProvider creates a provider reporting prices in the given currency.
func NewProvider(apiKey, currency string) *Provider {
	return &Provider{
		apiKey:    apiKey,
		currency:  currency,
		base:      defaultBaseURL,
		client:    newDailyCachingClient(),
		tickers:   make(map[string]string),
		histories: make(map[string][]tracker.PricePoint),
		current:   make(map[string]tracker.Money),
	}
}

// MapTicker binds an asset ID to its EODHD ticker, typically
// "SYMBOL.EXCHANGECODE". Unmapped assets fall back to "ID.US".
func (p *Provider) MapTicker(assetID, ticker string) {
	p.mu.Lock()
	p.tickers[assetID] = ticker
	p.mu.Unlock()
}

func (p *Provider) ticker(assetID string) string {
	if t, ok := p.tickers[assetID]; ok {
		return t
	}
	return assetID + ".US"
}

// Refresh fetches the asset's closes over the range and replaces its cached
// history. The newest close also becomes the asset's current price unless a
// fresher intraday quote was already set.
func (p *Provider) Refresh(assetID string, r tracker.Range) error {
	p.mu.RLock()
	ticker := p.ticker(assetID)
	p.mu.RUnlock()

	// https://eodhd.com/api/eod/AAPL.US?fmt=json returns
	// [{"date":"2024-02-13","open":675.066,"close":668.445,...},...]
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		p.base, ticker, p.apiKey, r.From, r.To)

	type row struct {
		Date  tracker.Date    `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	var rows []row
	if err := jwget(p.client, addr, &rows); err != nil {
		return fmt.Errorf("fetch closes for %s: %w", ticker, err)
	}

	history := make([]tracker.PricePoint, 0, len(rows))
	for _, r := range rows {
		history = append(history, tracker.PricePoint{
			Date:  r.Date,
			Close: tracker.M(r.Close, p.currency),
		})
	}
	// The oracle contract wants newest first.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.histories[assetID] = history
	if _, quoted := p.current[assetID]; !quoted && len(history) > 0 {
		p.current[assetID] = history[0].Close
	}
	return nil
}

// CurrentPrice returns the asset's latest known price, zero when the
// provider has no data for it.
func (p *Provider) CurrentPrice(assetID string) tracker.Money {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current[assetID]
}

// PriceHistory returns the asset's cached closes, newest first.
func (p *Provider) PriceHistory(assetID string) []tracker.PricePoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.histories[assetID]
}

var _ tracker.PriceOracle = (*Provider)(nil)
