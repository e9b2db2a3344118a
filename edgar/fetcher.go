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
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/extract"
)

// MinSectionLength is the minimum composite section size accepted as a
// meaningful extraction. Shorter results usually mean the filing is an
// index page or the markers matched boilerplate.
const MinSectionLength = 200

// DefaultForms is the preference order of filing types. Annual reports
// first, foreign issuers next, then registration statements and quarterlies.
var DefaultForms = []string{"10-K", "20-F", "S-1", "10-Q"}

// Fetcher downloads filings and extracts the composite section text,
// walking the form preference order until one filing yields an acceptable
// section.
type Fetcher struct {
	source Source
	forms  []string
	minLen int
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithForms overrides the form preference order.
func WithForms(forms []string) FetcherOption {
	return func(f *Fetcher) { f.forms = forms }
}

// WithMinSectionLength overrides the acceptance threshold.
func WithMinSectionLength(n int) FetcherOption {
	return func(f *Fetcher) { f.minLen = n }
}

// NewFetcher creates a Fetcher over the given download source.
func NewFetcher(source Source, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source: source,
		forms:  DefaultForms,
		minLen: MinSectionLength,
		logger: slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the composite section text for an issuer, or ErrNoFiling
// when every form and candidate document is exhausted. Download and
// extraction failures for one form never abort the walk; the next form is
// tried.
func (f *Fetcher) Fetch(ctx context.Context, issuer *core.IssuerRecord) (string, error) {
	for _, form := range f.forms {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		dir, err := f.source.Download(ctx, form, issuer)
		if err != nil {
			f.logger.Debug("form unavailable", "issuer", issuer.ID(), "form", form, "error", err)
			continue
		}

		for _, path := range candidateFiles(dir) {
			raw, err := os.ReadFile(path)
			if err != nil {
				f.logger.Debug("unreadable candidate", "path", path, "error", err)
				continue
			}

			text := extract.Composite(string(raw))
			if len(text) >= f.minLen {
				f.logger.Info("extracted section",
					"issuer", issuer.ID(),
					"form", form,
					"file", filepath.Base(path),
					"chars", len(text))
				return text, nil
			}
			f.logger.Debug("section too short",
				"issuer", issuer.ID(),
				"file", filepath.Base(path),
				"chars", len(text))
		}
	}
	return "", ErrNoFiling
}

// candidateFiles enumerates document candidates under a form directory in
// acceptance order: txt/html/htm files first, then everything else.
// Subdirectories (one per accession) are descended one level.
func candidateFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if !e.IsDir() {
			files = append(files, path)
			continue
		}
		inner, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		sort.Slice(inner, func(i, j int) bool { return inner[i].Name() < inner[j].Name() })
		for _, ie := range inner {
			if ie.IsDir() || strings.HasPrefix(ie.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(path, ie.Name()))
		}
	}

	preferred := make([]string, 0, len(files))
	var others []string
	for _, p := range files {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".txt", ".html", ".htm":
			preferred = append(preferred, p)
		default:
			others = append(others, p)
		}
	}
	return append(preferred, others...)
}
