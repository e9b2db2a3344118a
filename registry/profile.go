package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultProfileURL is the Yahoo Finance quoteSummary endpoint.
const DefaultProfileURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

// Profile holds the sector classification of a listed company.
type Profile struct {
	Sector   string
	Industry string
}

// ProfileClient looks up sector and industry for a ticker. Lookups are
// best-effort: the pipeline treats a missing profile as blank metadata,
// never as a failed issuer.
type ProfileClient struct {
	http    *resty.Client
	baseURL string
	logger  *slog.Logger
}

// ProfileOption configures a ProfileClient.
type ProfileOption func(*ProfileClient)

// WithProfileURL overrides the quoteSummary base URL, mainly for tests.
func WithProfileURL(url string) ProfileOption {
	return func(c *ProfileClient) { c.baseURL = url }
}

// NewProfileClient creates a profile lookup client.
func NewProfileClient(opts ...ProfileOption) *ProfileClient {
	c := &ProfileClient{
		http: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; sectorvec)"),
		baseURL: DefaultProfileURL,
		logger:  slog.Default().With("component", "profile"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// Lookup fetches the asset profile for a ticker.
func (c *ProfileClient) Lookup(ctx context.Context, ticker string) (*Profile, error) {
	var out quoteSummaryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("modules", "assetProfile").
		SetResult(&out).
		Get(c.baseURL + "/" + ticker)
	if err != nil {
		return nil, fmt.Errorf("profile lookup for %s: %w", ticker, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("profile lookup for %s: status %d", ticker, resp.StatusCode())
	}
	if len(out.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("profile lookup for %s: no result", ticker)
	}

	ap := out.QuoteSummary.Result[0].AssetProfile
	return &Profile{Sector: ap.Sector, Industry: ap.Industry}, nil
}
