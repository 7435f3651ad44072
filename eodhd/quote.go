package eodhd

import (
	"fmt"

	"github.com/PaesslerAG/jsonpath"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// Quote fetches the asset's live price from the real-time endpoint and makes
// it the current price. End-of-day histories are untouched.
func (p *Provider) Quote(assetID string) (tracker.Money, error) {
	p.mu.RLock()
	ticker := p.ticker(assetID)
	p.mu.RUnlock()

	// https://eodhd.com/api/real-time/AAPL.US?fmt=json returns a single
	// object, but asking for several tickers at once returns a list, so
	// the payload is walked with jsonpath instead of a fixed struct.
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", p.base, ticker, p.apiKey)

	var jobj any
	// Live quotes must not be served from the daily cache.
	if err := jwget(uncachedClient(), addr, &jobj); err != nil {
		return tracker.Money{}, fmt.Errorf("quote %s: %w", ticker, err)
	}

	val, err := closeField(jobj)
	if err != nil {
		return tracker.Money{}, fmt.Errorf("quote %s: %w", ticker, err)
	}

	price := tracker.M(val, p.currency)
	p.mu.Lock()
	p.current[assetID] = price
	p.mu.Unlock()
	return price, nil
}

// closeField extracts the "close" value from a quote payload that is either
// a single object or a one-element list.
func closeField(jobj any) (float64, error) {
	jval, err := jsonpath.Get("$.close", jobj)
	if err != nil {
		jval, err = jsonpath.Get("$[0].close", jobj)
	}
	if err != nil {
		return 0, fmt.Errorf("no close in payload: %w", err)
	}
	// jsonpath sometimes wraps a single answer in a list.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("close is %T, not a number", jval)
	}
	return val, nil
}
