package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/feed"
)

// MockFeedClient is a mock implementation of feed.Client for testing.
// It returns predefined quotes per symbol instead of making API calls.
type MockFeedClient struct {
	mu sync.Mutex

	// Quotes maps symbols to the quote FetchQuote returns for them.
	Quotes map[string]feed.Quote
	// Errors maps symbols to an error FetchQuote returns for them.
	Errors map[string]error
	// DefaultError is returned for symbols with no entry in Quotes.
	DefaultError error
	// FetchCount tracks how many times FetchQuote was called.
	FetchCount int
}

// NewMockFeedClient creates an empty mock feed client. Configure it with
// WithQuote and WithError before use.
func NewMockFeedClient() *MockFeedClient {
	return &MockFeedClient{
		Quotes: make(map[string]feed.Quote),
		Errors: make(map[string]error),
	}
}

// WithQuote configures the mock to return the given price for a symbol.
func (m *MockFeedClient) WithQuote(symbol string, price float64) *MockFeedClient {
	m.Quotes[symbol] = feed.Quote{
		Symbol:    symbol,
		Name:      symbol + " Inc.",
		Currency:  "USD",
		Price:     price,
		Source:    "regularMarketPrice",
		FetchedAt: time.Now().UTC(),
	}
	return m
}

// WithError configures the mock to fail for a specific symbol.
func (m *MockFeedClient) WithError(symbol string, err error) *MockFeedClient {
	m.Errors[symbol] = err
	return m
}

// FetchQuote implements feed.Client.
func (m *MockFeedClient) FetchQuote(_ context.Context, symbol string) (feed.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCount++

	if err, ok := m.Errors[symbol]; ok {
		return feed.Quote{}, err
	}
	if quote, ok := m.Quotes[symbol]; ok {
		return quote, nil
	}
	if m.DefaultError != nil {
		return feed.Quote{}, m.DefaultError
	}

	return feed.Quote{}, fmt.Errorf("%w: no quote configured for %s", apperrors.ErrFeedUnavailable, symbol)
}
