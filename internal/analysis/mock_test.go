package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/auction-appraiser/internal/types"
)

// MockClient is a mock implementation of llm.Client for testing
type MockClient struct {
	AnalyzeBatchFunc func(ctx context.Context, batch []types.Listing, model string) ([]types.AnalysisResult, error)

	mu    sync.Mutex
	calls []mockCall
}

type mockCall struct {
	Model string
	Size  int
	IDs   []string
}

func (m *MockClient) AnalyzeBatch(ctx context.Context, batch []types.Listing, model string) ([]types.AnalysisResult, error) {
	m.mu.Lock()
	call := mockCall{Model: model, Size: len(batch)}
	for _, l := range batch {
		call.IDs = append(call.IDs, l.ID)
	}
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.AnalyzeBatchFunc != nil {
		return m.AnalyzeBatchFunc(ctx, batch, model)
	}
	return echoResults(batch), nil
}

func (m *MockClient) Close() error {
	return nil
}

func (m *MockClient) Calls() []mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockCall(nil), m.calls...)
}

// echoResults appraises every listing at 10.
func echoResults(batch []types.Listing) []types.AnalysisResult {
	results := make([]types.AnalysisResult, 0, len(batch))
	for _, l := range batch {
		results = append(results, types.AnalysisResult{
			ItemIdentification:   types.NewItemName("item " + l.ID),
			EstimatedMarketValue: 10,
			OriginalListing:      l,
		})
	}
	return results
}

func makeListings(n int) []types.Listing {
	listings := make([]types.Listing, 0, n)
	for i := 1; i <= n; i++ {
		listings = append(listings, types.Listing{
			ID:  fmt.Sprintf("lot-%d", i),
			URL: fmt.Sprintf("https://auctions.example.com/lot/%d/", i),
		})
	}
	return listings
}

// sleepRecorder records requested waits without blocking.
type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.waits {
		if w == d {
			n++
		}
	}
	return n
}

func testConfig(models ...string) Config {
	return Config{
		Models:     models,
		MaxRetries: 3,
		RetryDelay: 15 * time.Second,
		BatchSize:  2,
		BatchDelay: 5 * time.Second,
	}
}
