package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/ai"
	"github.com/farmmitra/farmmitra-api/internal/config"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"github.com/farmmitra/farmmitra-api/internal/repository"
	"go.uber.org/zap"
)

// priceFreshness is how long cached mandi quotes are served without refetching.
const priceFreshness = 6 * time.Hour

// PriceService is the business logic layer for mandi price lookups. Fresh
// quotes come from the upstream API and are cached; when the API is down,
// stale cached quotes are served with a flag.
type PriceService struct {
	Cfg      *config.Config
	Provider ai.PriceProvider
	Advisor  ai.TextProvider
	Repo     repository.PriceRepo
}

// NewPriceService creates a new PriceService. advisor may be nil, in which
// case responses carry no narrative summary.
func NewPriceService(cfg *config.Config, provider ai.PriceProvider, advisor ai.TextProvider, repo repository.PriceRepo) *PriceService {
	return &PriceService{
		Cfg:      cfg,
		Provider: provider,
		Advisor:  advisor,
		Repo:     repo,
	}
}

// PriceQuoteResponse is one mandi quote in a price lookup response.
type PriceQuoteResponse struct {
	Commodity  string    `json:"commodity"`
	Market     string    `json:"market"`
	State      string    `json:"state"`
	Unit       string    `json:"unit"`
	MinPrice   float64   `json:"min_price"`
	MaxPrice   float64   `json:"max_price"`
	ModalPrice float64   `json:"modal_price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// PricesResponse is the response object for a mandi price lookup.
type PricesResponse struct {
	Commodity string               `json:"commodity"`
	State     string               `json:"state,omitempty"`
	Quotes    []PriceQuoteResponse `json:"quotes"`
	Stale     bool                 `json:"stale"`
	FetchedAt time.Time            `json:"fetched_at"`
	Summary   string               `json:"summary,omitempty"`
}

// GetPrices returns mandi quotes for a commodity, optionally filtered by
// state. Cache first, then the upstream API, then stale cache as last resort.
func (s *PriceService) GetPrices(ctx context.Context, commodity, state string) (*PricesResponse, error) {
	commodity = strings.TrimSpace(commodity)
	if commodity == "" {
		return nil, fmt.Errorf("commodity is required")
	}
	state = strings.TrimSpace(state)

	cached, err := s.Repo.GetLatestPrices(commodity, state, priceFreshness)
	if err == nil && len(cached) > 0 {
		resp := cachedResponse(commodity, state, cached, false)
		resp.Summary = s.summarize(ctx, resp)
		return resp, nil
	}

	quotes, err := s.Provider.FetchPrices(ctx, commodity, state)
	if err == nil && len(quotes) > 0 {
		now := time.Now()
		rows := make([]models.MandiPrice, 0, len(quotes))
		for _, q := range quotes {
			rows = append(rows, models.MandiPrice{
				Commodity:  q.Commodity,
				Market:     q.Market,
				State:      q.State,
				Unit:       q.Unit,
				MinPrice:   q.MinPrice,
				MaxPrice:   q.MaxPrice,
				ModalPrice: q.ModalPrice,
				RecordedAt: q.RecordedAt,
				FetchedAt:  now,
			})
		}
		if err := s.Repo.UpsertPrices(rows); err != nil {
			logger.Get().Warn("failed to cache mandi prices", zap.String("commodity", commodity), zap.Error(err))
		}
		resp := cachedResponse(commodity, state, rows, false)
		resp.Summary = s.summarize(ctx, resp)
		return resp, nil
	}
	if err != nil {
		logger.Get().Warn("mandi price fetch failed, falling back to cache",
			zap.String("commodity", commodity),
			zap.Error(err))
	}

	// Last resort: serve whatever is cached, however old
	stale, staleErr := s.Repo.GetAnyPrices(commodity, state, 20)
	if staleErr != nil {
		return nil, staleErr
	}
	if len(stale) == 0 {
		return nil, fmt.Errorf("no price data available for %s", commodity)
	}
	resp := cachedResponse(commodity, state, stale, true)
	resp.Summary = s.summarize(ctx, resp)
	return resp, nil
}

// summarize asks the advisor for a one-line reading of the quotes. Best
// effort: any failure just leaves the summary empty.
func (s *PriceService) summarize(ctx context.Context, resp *PricesResponse) string {
	if s.Advisor == nil || s.Cfg.Prompts == nil || s.Cfg.Prompts.Prices.System == "" {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mandi quotes for %s", resp.Commodity)
	if resp.State != "" {
		fmt.Fprintf(&b, " in %s", resp.State)
	}
	b.WriteString(":\n")
	for _, q := range resp.Quotes {
		fmt.Fprintf(&b, "- %s: modal %.0f, range %.0f-%.0f per %s\n",
			q.Market, q.ModalPrice, q.MinPrice, q.MaxPrice, q.Unit)
	}

	summary, err := s.Advisor.ChatReply(ctx, []ai.Message{
		{Role: "system", Content: s.Cfg.Prompts.Prices.System},
		{Role: "user", Content: b.String()},
	})
	if err != nil {
		logger.Get().Warn("failed to summarize mandi prices",
			zap.String("commodity", resp.Commodity),
			zap.Error(err))
		return ""
	}
	return strings.TrimSpace(summary)
}

func cachedResponse(commodity, state string, rows []models.MandiPrice, stale bool) *PricesResponse {
	resp := &PricesResponse{
		Commodity: commodity,
		State:     state,
		Stale:     stale,
		Quotes:    make([]PriceQuoteResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Quotes = append(resp.Quotes, PriceQuoteResponse{
			Commodity:  row.Commodity,
			Market:     row.Market,
			State:      row.State,
			Unit:       row.Unit,
			MinPrice:   row.MinPrice,
			MaxPrice:   row.MaxPrice,
			ModalPrice: row.ModalPrice,
			RecordedAt: row.RecordedAt,
		})
		if row.FetchedAt.After(resp.FetchedAt) {
			resp.FetchedAt = row.FetchedAt
		}
	}
	return resp
}
