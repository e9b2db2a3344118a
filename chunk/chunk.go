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


package chunk

import "strings"

// Sentence-ending delimiters searched for when choosing a cut point,
// in priority order.
var delimiters = []string{". ", ".\n", "! ", "? "}

// boundaryFraction is the minimum position within a window, as a fraction of
// maxLength, at which a sentence boundary is accepted as the cut point.
const boundaryFraction = 0.7

// Split divides text into overlapping pieces no longer than maxLength,
// preferring to cut at sentence boundaries. Text at or under maxLength is
// returned as a single-element slice. Consecutive chunks overlap by overlap
// characters so context survives the cut for embedding.
//
// The window start strictly advances every iteration, so Split terminates
// even when overlap >= maxLength.
func Split(text string, maxLength, overlap int) []string {
	if maxLength <= 0 {
		return []string{text}
	}
	if len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + maxLength
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		window := text[start:end]
		cut := boundaryCut(window, maxLength)
		if cut < 0 {
			cut = maxLength
		}

		chunks = append(chunks, text[start:start+cut])

		next := start + cut - overlap
		// Guard against a stall when overlap swallows the whole advance.
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// boundaryCut finds the last sentence delimiter in the window that sits at
// or past boundaryFraction of maxLength. Returns the cut position after the
// delimiter, or -1 if no acceptable boundary exists.
func boundaryCut(window string, maxLength int) int {
	threshold := int(float64(maxLength) * boundaryFraction)
	for _, delim := range delimiters {
		pos := strings.LastIndex(window, delim)
		if pos > threshold {
			return pos + len(delim)
		}
	}
	return -1
}
