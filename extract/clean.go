package extract

import (
	"html"
	"regexp"
)

// Pre-compiled regular expressions for markup cleanup.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// CleanText converts filing markup to whitespace-collapsed plain text.
// Script and style blocks are removed entirely, remaining tags are stripped,
// and HTML entities are decoded. CleanText never fails; plain-text input
// passes through with only whitespace normalization.
func CleanText(raw string) string {
	text := scriptTag.ReplaceAllString(raw, " ")
	text = styleTag.ReplaceAllString(text, " ")
	text = htmlComments.ReplaceAllString(text, " ")
	text = allTags.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespace.ReplaceAllString(text, " ")
	return trimSpace(text)
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}

var tocItemRef = regexp.MustCompile(`(?i)item\s+1[^a-z0-9]`)

// tocLookahead bounds how far past the "TABLE OF CONTENTS" marker the false
// "Item 1" reference is searched for.
const tocLookahead = 15000

var tocMarker = regexp.MustCompile(`(?i)table\s+of\s+contents`)

// StripTableOfContents removes the table-of-contents region from a filing so
// that the TOC listing of "Item 1" cannot shadow the real section header.
// If no TOC marker or no Item 1 reference is found nearby, the text is
// returned unchanged.
func StripTableOfContents(text string) string {
	loc := tocMarker.FindStringIndex(text)
	if loc == nil {
		return text
	}

	end := loc[0] + tocLookahead
	if end > len(text) {
		end = len(text)
	}

	snippet := text[loc[0]:end]
	item := tocItemRef.FindStringIndex(snippet)
	if item == nil {
		return text
	}

	return text[loc[0]+item[1]:]
}
