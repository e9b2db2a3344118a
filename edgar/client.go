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


package edgar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/poiesic/sectorvec/core"
)

const (
	defaultSubmissionsURL = "https://data.sec.gov/submissions"
	defaultArchivesURL    = "https://www.sec.gov/Archives/edgar/data"

	defaultTimeout = 60 * time.Second
)

// Source downloads one filing of the given form for an issuer and returns
// the directory its documents were written to.
type Source interface {
	Download(ctx context.Context, form string, issuer *core.IssuerRecord) (string, error)
}

// Client downloads filings from the EDGAR submissions API. SEC fair-access
// policy requires a User-Agent identifying the operator and a contact email.
type Client struct {
	http           *resty.Client
	submissionsURL string
	archivesURL    string
	root           string
	logger         *slog.Logger
}

var _ Source = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSubmissionsURL overrides the submissions API base URL, mainly for tests.
func WithSubmissionsURL(url string) ClientOption {
	return func(c *Client) { c.submissionsURL = url }
}

// WithArchivesURL overrides the document archive base URL, mainly for tests.
func WithArchivesURL(url string) ClientOption {
	return func(c *Client) { c.archivesURL = url }
}

// NewClient creates an EDGAR client writing downloads under root.
func NewClient(root, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetRetryCount(3).
			SetRetryWaitTime(time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		submissionsURL: defaultSubmissionsURL,
		archivesURL:    defaultArchivesURL,
		root:           root,
		logger:         slog.Default().With("component", "edgar"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// submissionsResponse is the subset of the submissions API we consume.
// Recent filings are parallel arrays indexed together.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			AccessionNumber []string `json:"accessionNumber"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Download fetches the most recent filing of the given form and writes its
// primary document under <root>/<issuerID>/<form>/<accession>/. Returns the
// form directory.
func (c *Client) Download(ctx context.Context, form string, issuer *core.IssuerRecord) (string, error) {
	var subs submissionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&subs).
		Get(fmt.Sprintf("%s/CIK%s.json", c.submissionsURL, issuer.CIK))
	if err != nil {
		return "", fmt.Errorf("fetching submissions for %s: %w", issuer.ID(), err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetching submissions for %s: status %d", issuer.ID(), resp.StatusCode())
	}

	recent := subs.Filings.Recent
	idx := -1
	for i, f := range recent.Form {
		if f == form {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(recent.AccessionNumber) {
		return "", fmt.Errorf("%w: no %s for %s", ErrNoDocuments, form, issuer.ID())
	}

	accession := recent.AccessionNumber[idx]
	document := recent.PrimaryDocument[idx]
	if document == "" {
		return "", fmt.Errorf("%w: %s %s", ErrNoDocuments, issuer.ID(), accession)
	}

	// Archive paths use the unpadded CIK and the accession without dashes.
	cik := strings.TrimLeft(issuer.CIK, "0")
	docURL := fmt.Sprintf("%s/%s/%s/%s", c.archivesURL, cik, strings.ReplaceAll(accession, "-", ""), document)

	docResp, err := c.http.R().SetContext(ctx).Get(docURL)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", docURL, err)
	}
	if docResp.IsError() {
		return "", fmt.Errorf("downloading %s: status %d", docURL, docResp.StatusCode())
	}

	formDir := filepath.Join(c.root, issuer.ID(), form)
	filingDir := filepath.Join(formDir, accession)
	if err := os.MkdirAll(filingDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(filingDir, filepath.Base(document))
	if err := os.WriteFile(path, docResp.Body(), 0644); err != nil {
		return "", err
	}

	c.logger.Debug("downloaded filing",
		"issuer", issuer.ID(),
		"form", form,
		"accession", accession,
		"bytes", len(docResp.Body()))
	return formDir, nil
}
