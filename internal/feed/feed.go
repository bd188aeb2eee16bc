// Package feed implements the market data fetch collaborator against the
// Yahoo Finance chart API.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
)

// SourceTag identifies this feed in stored price points.
const SourceTag = "yahoo_finance"

// Client fetches current market data for a symbol. Implementations must
// return a per-symbol error for unknown or delisted symbols so callers can
// skip them without aborting a batch.
type Client interface {
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// TokenSource supplies an optional feed API token for paid-tier access.
// A nil source or empty token means the public endpoint is used as-is.
type TokenSource func() string

// FinanceClient is the HTTP implementation of Client.
type FinanceClient struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
}

// NewFinanceClient creates a Yahoo Finance client. baseURL is overridable
// for tests; pass the production endpoint from config otherwise.
func NewFinanceClient(baseURL string, timeout time.Duration, tokenSource TokenSource) *FinanceClient {
	return &FinanceClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
	}
}

// FetchQuote fetches the current price for one symbol using the last five
// trading days of daily data. The price is taken from an explicit ordered
// fallback chain:
//
//  1. meta.regularMarketPrice
//  2. meta.chartPreviousClose
//  3. the most recent non-zero daily close
//
// Returns apperrors.ErrFeedUnavailable (wrapped) when the symbol is unknown
// or the feed cannot produce a usable price.
func (c *FinanceClient) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)

	response, err := c.query(ctx, url)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s: %v", apperrors.ErrFeedUnavailable, symbol, err)
	}

	if len(response.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("%w: no results for symbol %s", apperrors.ErrFeedUnavailable, symbol)
	}

	result := response.Chart.Result[0]

	price, source, ok := resolvePrice(response)
	if !ok {
		return Quote{}, fmt.Errorf("%w: no usable price for symbol %s", apperrors.ErrFeedUnavailable, symbol)
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}

	return Quote{
		Symbol:    result.Meta.Symbol,
		Name:      name,
		Currency:  result.Meta.Currency,
		Price:     price,
		Source:    source,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// resolvePrice walks the ordered fallback chain and reports which source
// produced the price.
func resolvePrice(response Response) (float64, string, bool) {
	result := response.Chart.Result[0]

	if result.Meta.RegularMarketPrice > 0 {
		return result.Meta.RegularMarketPrice, "regularMarketPrice", true
	}
	if result.Meta.ChartPreviousClose > 0 {
		return result.Meta.ChartPreviousClose, "chartPreviousClose", true
	}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] > 0 {
				return closes[i], "close", true
			}
		}
	}

	return 0, "", false
}

// query executes one HTTP request against the chart endpoint. Sets a
// browser User-Agent since the API rejects default Go clients.
func (c *FinanceClient) query(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("feed error: %s", *response.Chart.Error)
	}

	return response, nil
}
