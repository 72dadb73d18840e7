package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/testutil"
)

func newTestPriceService(provider *testutil.MockPriceProvider, repo *testutil.MockPriceRepo) *PriceService {
	return NewPriceService(&config.Config{}, provider, nil, repo)
}

func TestGetPrices_FetchesAndCaches(t *testing.T) {
	var fetches int
	provider := &testutil.MockPriceProvider{
		FetchPricesFunc: func(_ context.Context, commodity, state string) ([]ai.PriceQuote, error) {
			fetches++
			return testutil.TestPriceQuotes(), nil
		},
	}
	repo := testutil.NewMockPriceRepo()
	svc := newTestPriceService(provider, repo)

	resp, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra")
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if len(resp.Quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(resp.Quotes))
	}
	if resp.Stale {
		t.Error("freshly fetched quotes should not be stale")
	}
	if len(repo.Prices) != 2 {
		t.Errorf("cached rows = %d, want 2", len(repo.Prices))
	}

	// Second lookup must come from cache
	if _, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra"); err != nil {
		t.Fatalf("GetPrices from cache error: %v", err)
	}
	if fetches != 1 {
		t.Errorf("provider fetches = %d, want 1", fetches)
	}
}

func TestGetPrices_StaleFallbackWhenProviderDown(t *testing.T) {
	provider := &testutil.MockPriceProvider{
		FetchPricesFunc: func(context.Context, string, string) ([]ai.PriceQuote, error) {
			return nil, errors.New("quota exhausted")
		},
	}
	repo := testutil.NewMockPriceRepo()
	repo.Prices = []models.MandiPrice{
		{
			Commodity:  "Tomato",
			Market:     "Nashik",
			State:      "Maharashtra",
			ModalPrice: 1000,
			FetchedAt:  time.Now().Add(-48 * time.Hour),
		},
	}
	svc := newTestPriceService(provider, repo)

	resp, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra")
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if !resp.Stale {
		t.Error("quotes served from an old cache should be flagged stale")
	}
	if len(resp.Quotes) != 1 {
		t.Errorf("quotes = %d, want 1", len(resp.Quotes))
	}
}

func TestGetPrices_NoDataAnywhere(t *testing.T) {
	provider := &testutil.MockPriceProvider{
		FetchPricesFunc: func(context.Context, string, string) ([]ai.PriceQuote, error) {
			return nil, errors.New("api down")
		},
	}
	svc := newTestPriceService(provider, testutil.NewMockPriceRepo())

	_, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra")
	if err == nil {
		t.Fatal("GetPrices with no provider and empty cache should fail")
	}
}

func TestGetPrices_SummaryFromAdvisor(t *testing.T) {
	provider := &testutil.MockPriceProvider{
		FetchPricesFunc: func(context.Context, string, string) ([]ai.PriceQuote, error) {
			return testutil.TestPriceQuotes(), nil
		},
	}
	advisor := &testutil.MockTextProvider{
		ChatReplyFunc: func(_ context.Context, messages []ai.Message) (string, error) {
			if !strings.Contains(messages[1].Content, "Tomato") {
				t.Error("quote listing should be in the advisor prompt")
			}
			return "Prices are steady; Nashik pays best today.", nil
		},
	}
	svc := NewPriceService(&config.Config{
		Prompts: &config.Prompts{
			Prices: config.SinglePrompt{System: "Summarize mandi quotes."},
		},
	}, provider, advisor, testutil.NewMockPriceRepo())

	resp, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra")
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if resp.Summary != "Prices are steady; Nashik pays best today." {
		t.Errorf("Summary = %q", resp.Summary)
	}
}

func TestGetPrices_SummaryFailureIsNotFatal(t *testing.T) {
	provider := &testutil.MockPriceProvider{
		FetchPricesFunc: func(context.Context, string, string) ([]ai.PriceQuote, error) {
			return testutil.TestPriceQuotes(), nil
		},
	}
	advisor := &testutil.MockTextProvider{
		ChatReplyFunc: func(context.Context, []ai.Message) (string, error) {
			return "", errors.New("api down")
		},
	}
	svc := NewPriceService(&config.Config{
		Prompts: &config.Prompts{
			Prices: config.SinglePrompt{System: "Summarize mandi quotes."},
		},
	}, provider, advisor, testutil.NewMockPriceRepo())

	resp, err := svc.GetPrices(context.Background(), "Tomato", "Maharashtra")
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if resp.Summary != "" {
		t.Errorf("Summary = %q, want empty on advisor failure", resp.Summary)
	}
}

func TestGetPrices_EmptyCommodity(t *testing.T) {
	svc := newTestPriceService(&testutil.MockPriceProvider{}, testutil.NewMockPriceRepo())

	_, err := svc.GetPrices(context.Background(), "  ", "")
	if err == nil {
		t.Fatal("GetPrices with empty commodity should fail")
	}
}
