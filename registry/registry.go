// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/poiesic/sectorvec/core"
)

const (
	// DefaultTickersURL is the SEC registry of all public filers.
	DefaultTickersURL = "https://www.sec.gov/files/company_tickers.json"

	// DefaultCachePath is where the fetched registry is cached locally.
	DefaultCachePath = "tickers.json"

	defaultTimeout = 30 * time.Second
)

// Client fetches the issuer registry from SEC.gov and caches it locally.
// SEC.gov rejects requests without a descriptive User-Agent header.
type Client struct {
	http      *resty.Client
	url       string
	cachePath string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTickersURL overrides the registry URL, mainly for tests.
func WithTickersURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithCachePath overrides the local cache file location.
func WithCachePath(path string) Option {
	return func(c *Client) { c.cachePath = path }
}

// NewClient creates a registry client. The userAgent should identify the
// operator and include a contact address, per SEC fair-access rules.
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetRetryCount(3).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second),
		url:       DefaultTickersURL,
		cachePath: DefaultCachePath,
		logger:    slog.Default().With("component", "registry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// secTickerEntry mirrors one value of the SEC registry file, where cik_str
// is a bare number despite its name.
type secTickerEntry struct {
	Ticker   string `json:"ticker"`
	CIK      int64  `json:"cik_str"`
	Title    string `json:"title"`
	Exchange string `json:"exchange"`
}

// Fetch downloads the registry. The SEC file is a JSON object keyed by
// positional index; the keys carry no information and are discarded.
func (c *Client) Fetch(ctx context.Context) ([]*core.IssuerRecord, error) {
	var keyed map[string]secTickerEntry
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&keyed).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetching issuer registry: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching issuer registry: status %d", resp.StatusCode())
	}

	records := make([]*core.IssuerRecord, 0, len(keyed))
	for _, e := range keyed {
		records = append(records, &core.IssuerRecord{
			Ticker: e.Ticker,
			// EDGAR endpoints want the zero-padded 10-digit form.
			CIK:      fmt.Sprintf("%010d", e.CIK),
			Title:    e.Title,
			Exchange: e.Exchange,
		})
	}

	c.logger.Info("fetched issuer registry", "count", len(records))
	return records, nil
}

// LoadOrFetch returns the cached registry if the cache file exists,
// otherwise fetches from SEC.gov and writes the cache.
func (c *Client) LoadOrFetch(ctx context.Context) ([]*core.IssuerRecord, error) {
	if data, err := os.ReadFile(c.cachePath); err == nil {
		var records []*core.IssuerRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing registry cache %s: %w", c.cachePath, err)
		}
		c.logger.Debug("loaded issuer registry from cache", "path", c.cachePath, "count", len(records))
		return records, nil
	}

	records, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	// On a fresh run the cache directory may not exist yet.
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0755); err != nil {
		return nil, fmt.Errorf("creating registry cache directory: %w", err)
	}
	if err := os.WriteFile(c.cachePath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing registry cache %s: %w", c.cachePath, err)
	}
	return records, nil
}
