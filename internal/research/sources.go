package research

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// Snapshot holds raw fields gathered from an external data source. Numeric
// fields are pointers so "missing" and "zero" stay distinguishable.
type Snapshot struct {
	Symbol       string
	Name         string
	Sector       string
	Industry     string
	CEO          string
	Headquarters string
	Website      string
	Description  string

	MarketCap          *float64
	Revenue            *float64
	RevenueGrowth      *float64
	ProfitMargin       *float64
	PERatio            *float64
	DividendYield      *float64
	Employees          *float64
	CurrentPrice       *float64
	PriceChange        *float64
	PriceChangePercent *float64
	YearHigh           *float64
	YearLow            *float64
	Volume             *float64
}

// Source names one external data provider in the fallback chain.
type Source string

const (
	SourceYahoo        Source = "yahoo"
	SourceFMP          Source = "fmp"
	SourceAlphaVantage Source = "alphavantage"
)

// SourceConfig configures the external data source client.
type SourceConfig struct {
	// Order is the fallback chain; the first source returning a named
	// snapshot wins.
	Order []Source

	AlphaVantageAPIKey string
	FMPAPIKey          string

	// Base URLs are overridable so tests can point at local servers.
	YahooBaseURL        string
	FMPBaseURL          string
	AlphaVantageBaseURL string

	Timeout time.Duration
}

// DefaultSourceConfig returns the production source configuration. The chain
// order follows the original preference: quote-chart data first, then the
// fundamentals-profile source, then the overview source.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Order:               []Source{SourceYahoo, SourceFMP, SourceAlphaVantage},
		FMPAPIKey:           "demo",
		YahooBaseURL:        "https://query1.finance.yahoo.com",
		FMPBaseURL:          "https://financialmodelingprep.com",
		AlphaVantageBaseURL: "https://www.alphavantage.co",
		Timeout:             10 * time.Second,
	}
}

// SourceClient queries the external financial data providers. Every failure
// mode (network, HTTP status, parse) collapses to a nil snapshot so the
// caller falls through to the next source.
type SourceClient struct {
	cfg        SourceConfig
	httpClient *http.Client
}

// NewSourceClient creates a client for the configured sources.
func NewSourceClient(cfg SourceConfig) *SourceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SourceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchByTicker tries each source in order and returns the first snapshot
// with a non-empty name, or nil when every source came up empty.
func (c *SourceClient) FetchByTicker(ctx context.Context, ticker string) *Snapshot {
	for _, source := range c.cfg.Order {
		var snap *Snapshot
		switch source {
		case SourceYahoo:
			snap = c.fetchYahoo(ctx, ticker)
		case SourceFMP:
			snap = c.fetchFMP(ctx, ticker)
		case SourceAlphaVantage:
			snap = c.fetchAlphaVantage(ctx, ticker)
		default:
			slog.Warn("unknown data source in chain", "source", source)
		}
		if snap != nil && snap.Name != "" {
			return snap
		}
	}
	return nil
}

// fetchYahoo reads quote and 52-week range data from the chart endpoint.
func (c *SourceClient) fetchYahoo(ctx context.Context, ticker string) *Snapshot {
	body := c.get(ctx, fmt.Sprintf("%s/v8/finance/chart/%s", c.cfg.YahooBaseURL, ticker))
	if body == nil {
		return nil
	}

	meta := gjson.GetBytes(body, "chart.result.0.meta")
	if !meta.Exists() {
		return nil
	}

	snap := &Snapshot{
		Symbol:       meta.Get("symbol").String(),
		CurrentPrice: optFloat(meta.Get("regularMarketPrice")),
		Volume:       optFloat(meta.Get("regularMarketVolume")),
		YearHigh:     optFloat(meta.Get("fiftyTwoWeekHigh")),
		YearLow:      optFloat(meta.Get("fiftyTwoWeekLow")),
	}
	snap.Name = meta.Get("longName").String()
	if snap.Name == "" {
		snap.Name = meta.Get("shortName").String()
	}

	if price, prev := meta.Get("regularMarketPrice"), meta.Get("previousClose"); price.Exists() && prev.Exists() && prev.Float() != 0 {
		change := price.Float() - prev.Float()
		pct := change / prev.Float() * 100
		snap.PriceChange = &change
		snap.PriceChangePercent = &pct
	}

	return snap
}

// fetchFMP reads the company profile and quote endpoints; the pair is issued
// concurrently and both must parse for the source to count.
func (c *SourceClient) fetchFMP(ctx context.Context, ticker string) *Snapshot {
	var profileBody, quoteBody []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profileBody = c.get(gctx, fmt.Sprintf("%s/api/v3/profile/%s?apikey=%s", c.cfg.FMPBaseURL, ticker, c.cfg.FMPAPIKey))
		return nil
	})
	g.Go(func() error {
		quoteBody = c.get(gctx, fmt.Sprintf("%s/api/v3/quote/%s?apikey=%s", c.cfg.FMPBaseURL, ticker, c.cfg.FMPAPIKey))
		return nil
	})
	_ = g.Wait()

	if profileBody == nil || quoteBody == nil {
		return nil
	}

	profile := gjson.GetBytes(profileBody, "0")
	quote := gjson.GetBytes(quoteBody, "0")
	if !profile.Exists() || !quote.Exists() {
		return nil
	}

	snap := &Snapshot{
		Symbol:             profile.Get("symbol").String(),
		Sector:             profile.Get("sector").String(),
		Industry:           profile.Get("industry").String(),
		CEO:                profile.Get("ceo").String(),
		Headquarters:       profile.Get("address").String(),
		Website:            profile.Get("website").String(),
		Description:        profile.Get("description").String(),
		MarketCap:          optFloat(profile.Get("mktCap")),
		Employees:          optFloat(profile.Get("fullTimeEmployees")),
		CurrentPrice:       optFloat(quote.Get("price")),
		PriceChange:        optFloat(quote.Get("change")),
		PriceChangePercent: optFloat(quote.Get("changesPercentage")),
		PERatio:            optFloat(quote.Get("pe")),
		YearHigh:           optFloat(quote.Get("yearHigh")),
		YearLow:            optFloat(quote.Get("yearLow")),
		Volume:             optFloat(quote.Get("volume")),
	}
	snap.Name = profile.Get("companyName").String()
	if snap.Name == "" {
		snap.Name = profile.Get("name").String()
	}

	return snap
}

// fetchAlphaVantage reads the fundamentals overview and the global quote.
// Alpha Vantage reports rate limiting as a "Note" field in an otherwise
// successful response, which counts as no data.
func (c *SourceClient) fetchAlphaVantage(ctx context.Context, ticker string) *Snapshot {
	var overviewBody, quoteBody []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overviewBody = c.get(gctx, fmt.Sprintf("%s/query?function=OVERVIEW&symbol=%s&apikey=%s", c.cfg.AlphaVantageBaseURL, ticker, c.cfg.AlphaVantageAPIKey))
		return nil
	})
	g.Go(func() error {
		quoteBody = c.get(gctx, fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", c.cfg.AlphaVantageBaseURL, ticker, c.cfg.AlphaVantageAPIKey))
		return nil
	})
	_ = g.Wait()

	if overviewBody == nil {
		return nil
	}
	if gjson.GetBytes(overviewBody, "Note").Exists() || gjson.GetBytes(quoteBody, "Note").Exists() {
		slog.Warn("alpha vantage rate limit reached")
		return nil
	}

	overview := gjson.ParseBytes(overviewBody)
	if overview.Get("Symbol").String() == "" {
		return nil
	}

	snap := &Snapshot{
		Symbol:        overview.Get("Symbol").String(),
		Name:          overview.Get("Name").String(),
		Sector:        overview.Get("Sector").String(),
		Industry:      overview.Get("Industry").String(),
		CEO:           overview.Get("CEO").String(),
		Headquarters:  overview.Get("Address").String(),
		Website:       overview.Get("Website").String(),
		Description:   overview.Get("Description").String(),
		MarketCap:     avFloat(overview.Get("MarketCapitalization")),
		Revenue:       avFloat(overview.Get("RevenueTTM")),
		Employees:     avFloat(overview.Get("FullTimeEmployees")),
		PERatio:       avFloat(overview.Get("PERatio")),
		DividendYield: avFloat(overview.Get("DividendYield")),
	}

	// Prefer the reported margin; derive from gross profit when absent.
	if margin := avFloat(overview.Get("ProfitMargin")); margin != nil {
		snap.ProfitMargin = margin
	} else if revenue, gross := avFloat(overview.Get("RevenueTTM")), avFloat(overview.Get("GrossProfitTTM")); revenue != nil && gross != nil && *revenue > 0 {
		pct := *gross / *revenue * 100
		snap.ProfitMargin = &pct
	}

	if quoteBody != nil {
		quote := gjson.GetBytes(quoteBody, "Global Quote")
		snap.CurrentPrice = avFloat(quote.Get("05. price"))
		snap.PriceChange = avFloat(quote.Get("09. change"))
		snap.Volume = avFloat(quote.Get("06. volume"))
		snap.YearHigh = avFloat(quote.Get("03. high"))
		snap.YearLow = avFloat(quote.Get("04. low"))
		if pct := quote.Get("10. change percent").String(); pct != "" {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(pct, "%"), 64); err == nil {
				snap.PriceChangePercent = &v
			}
		}
	}

	return snap
}

// get performs one HTTP GET, returning nil on any failure.
func (c *SourceClient) get(ctx context.Context, url string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("data source request failed", "url", url, "error", err)
		return nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("data source returned non-OK status", "url", url, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}
	return body
}

func optFloat(result gjson.Result) *float64 {
	if !result.Exists() || result.Type == gjson.Null {
		return nil
	}
	v := result.Float()
	return &v
}

// avFloat parses Alpha Vantage's stringly-typed numerics; "None", "-" and
// unparsable values count as missing.
func avFloat(result gjson.Result) *float64 {
	if !result.Exists() {
		return nil
	}
	v, err := strconv.ParseFloat(result.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}
