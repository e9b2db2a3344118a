// Package extract locates named sections within SEC filing text.
//
// Filings arrive as HTML or plain text with wildly inconsistent layout, so
// extraction is heuristic: markup is stripped to normalized plain text, the
// table-of-contents region is removed to avoid false "Item 1" matches, and
// sections are bounded by prioritized marker phrases covering 10-K, 20-F,
// S-1, and 10-Q variants. Extraction degrades gracefully rather than
// failing: with no recognizable markers, a bounded document prefix is
// returned instead.
package extract
