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


package extract

import (
	"regexp"
	"strings"
)

// DefaultFallback is the window used for the business section when no end
// marker is found, and the prefix length returned when no start marker is
// found at all.
const DefaultFallback = 12000

// startSearchOffset skips past the matched start marker before searching for
// an end marker, so a marker phrase cannot terminate its own section.
const startSearchOffset = 10

// SectionSpec describes how to locate one named filing section: prioritized
// start markers, the markers that open the following section, and the
// fallback window applied when markers are missing. A Fallback of 0 means
// "to end of document" when the start was found, and an empty result when it
// was not.
type SectionSpec struct {
	Name     string
	start    *regexp.Regexp
	end      *regexp.Regexp
	Fallback int
}

func newSectionSpec(name string, startPatterns, endPatterns []string, fallback int) SectionSpec {
	return SectionSpec{
		Name:     name,
		start:    regexp.MustCompile(`(?i)` + strings.Join(startPatterns, "|")),
		end:      regexp.MustCompile(`(?i)` + strings.Join(endPatterns, "|")),
		Fallback: fallback,
	}
}

// Marker sets cover 10-K, 20-F, S-1, and 10-Q layout variants.
var (
	// BusinessSpec locates "Item 1. Business" (or the 20-F equivalent
	// "Information on the Company").
	BusinessSpec = newSectionSpec("business",
		[]string{
			`item\s*1[^a-z]{0,5}business`,
			`item\s*1\s*[-–]\s*business`,
			`business overview`,
			`information on the company`,
		},
		[]string{
			`item\s+1a\b`,
			`item\s+2\b`,
			`item\s+5\b`,
		},
		DefaultFallback)

	// RiskFactorsSpec locates "Item 1A. Risk Factors" (20-F: "Key Information").
	RiskFactorsSpec = newSectionSpec("risk_factors",
		[]string{
			`item\s*1a[^a-z]{0,5}risk`,
			`risk factors`,
			`key information`,
		},
		[]string{
			`item\s+1b\b`,
			`item\s+2\b`,
			`item\s+4\b`,
		},
		0)

	// MDASpec locates "Item 7. Management's Discussion and Analysis"
	// (10-Q: Item 2, 20-F: "Operating and Financial Review").
	MDASpec = newSectionSpec("mda",
		[]string{
			`item\s*7[^a-z]{0,5}management`,
			`management.?s discussion`,
			`operating and financial review`,
		},
		[]string{
			`item\s+7a\b`,
			`item\s+8\b`,
			`item\s+6\b`,
		},
		0)

	// PropertiesSpec locates "Item 2. Properties".
	PropertiesSpec = newSectionSpec("properties",
		[]string{
			`item\s*2[^a-z]{0,5}propert`,
		},
		[]string{
			`item\s+3\b`,
			`item\s+1a\b`,
		},
		0)
)

// section extracts one section from already cleaned, TOC-stripped text.
// When no start marker matches, the first Fallback characters are returned;
// when no end marker follows the start, the Fallback window (or the rest of
// the document, for Fallback 0) is used.
func section(text string, spec SectionSpec) string {
	startLoc := spec.start.FindStringIndex(text)
	if startLoc == nil {
		n := spec.Fallback
		if n > len(text) {
			n = len(text)
		}
		return strings.TrimSpace(text[:n])
	}

	start := startLoc[0]

	end := len(text)
	searchFrom := start + startSearchOffset
	if searchFrom < len(text) {
		if endLoc := spec.end.FindStringIndex(text[searchFrom:]); endLoc != nil {
			end = searchFrom + endLoc[0]
		} else if spec.Fallback > 0 {
			end = start + spec.Fallback
			if end > len(text) {
				end = len(text)
			}
		}
	}

	return strings.TrimSpace(text[start:end])
}

// Section cleans the raw filing text, strips the table-of-contents region,
// and extracts the section described by spec.
func Section(raw string, spec SectionSpec) string {
	text := CleanText(raw)
	text = StripTableOfContents(text)
	return section(text, spec)
}
