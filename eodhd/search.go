package eodhd

import (
	"fmt"
	"net/http"
	"net/url"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// SearchResult is one item of the EODHD search API response.
type SearchResult struct {
	Code              string       `json:"Code"`
	Exchange          string       `json:"Exchange"`
	Name              string       `json:"Name"`
	Type              string       `json:"Type"`
	Country           string       `json:"Country"`
	Currency          string       `json:"Currency"`
	ISIN              string       `json:"ISIN"`
	PreviousClose     float64      `json:"previousClose"`
	PreviousCloseDate tracker.Date `json:"previousCloseDate"`
}

// Ticker returns the EODHD ticker of the result, for Provider.MapTicker.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search looks a security up by name, ISIN or symbol.
func (p *Provider) Search(term string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s",
		p.base, url.PathEscape(term), url.QueryEscape(p.apiKey))
	var results []SearchResult
	if err := jwget(p.client, addr, &results); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return results, nil
}

// uncachedClient is for endpoints whose answers change within the day.
func uncachedClient() *http.Client { return new(http.Client) }
