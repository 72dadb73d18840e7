package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"go.uber.org/zap"
)

// AgmarknetPriceProvider implements PriceProvider against the data.gov.in
// open-data API carrying daily Agmarknet mandi prices. A quota-exhausted
// response flips a sticky flag so subsequent requests fail fast until restart.
type AgmarknetPriceProvider struct {
	apiKey     string
	httpClient *http.Client
	exhausted  atomic.Bool
}

// NewAgmarknetPriceProvider creates a mandi price provider backed by data.gov.in.
func NewAgmarknetPriceProvider(apiKey string) *AgmarknetPriceProvider {
	return &AgmarknetPriceProvider{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Daily "Current Daily Price of Various Commodities from Various Markets" resource.
const agmarknetEndpoint = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

type agmarknetResponse struct {
	Records []agmarknetRecord `json:"records"`
}

type agmarknetRecord struct {
	State       string `json:"state"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	ArrivalDate string `json:"arrival_date"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

// FetchPrices returns current mandi quotes for a commodity, optionally
// filtered by state. Prices come back in rupees per quintal.
func (p *AgmarknetPriceProvider) FetchPrices(ctx context.Context, commodity string, state string) ([]PriceQuote, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("no mandi price provider configured")
	}
	if p.exhausted.Load() {
		return nil, fmt.Errorf("mandi price API quota exhausted")
	}

	params := url.Values{}
	params.Set("api-key", p.apiKey)
	params.Set("format", "json")
	params.Set("limit", "20")
	params.Set("filters[commodity]", titleCase(commodity))
	if state != "" {
		params.Set("filters[state]", titleCase(state))
	}

	reqURL := fmt.Sprintf("%s?%s", agmarknetEndpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create agmarknet request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agmarknet request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read agmarknet response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 403 {
		p.exhausted.Store(true)
		return nil, fmt.Errorf("agmarknet quota exhausted (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agmarknet API returned status %d: %s", resp.StatusCode, string(body))
	}

	var aResp agmarknetResponse
	if err := json.Unmarshal(body, &aResp); err != nil {
		return nil, fmt.Errorf("failed to parse agmarknet response: %w", err)
	}

	quotes := make([]PriceQuote, 0, len(aResp.Records))
	for _, rec := range aResp.Records {
		q := PriceQuote{
			Commodity:  rec.Commodity,
			Market:     rec.Market,
			State:      rec.State,
			Unit:       "quintal",
			MinPrice:   parsePrice(rec.MinPrice),
			MaxPrice:   parsePrice(rec.MaxPrice),
			ModalPrice: parsePrice(rec.ModalPrice),
			RecordedAt: parseArrivalDate(rec.ArrivalDate),
		}
		if q.ModalPrice <= 0 {
			continue
		}
		quotes = append(quotes, q)
	}

	if len(quotes) == 0 {
		logger.Get().Info("no mandi quotes returned",
			zap.String("commodity", commodity),
			zap.String("state", state),
		)
	}
	return quotes, nil
}

// titleCase matches the capitalization the Agmarknet dataset uses for its
// filter columns ("tomato" -> "Tomato", "uttar pradesh" -> "Uttar Pradesh").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseArrivalDate handles the dataset's DD/MM/YYYY format; a bad date
// falls back to now so stale rows are still usable.
func parseArrivalDate(s string) time.Time {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Now()
	}
	return t
}
