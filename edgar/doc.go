// Package edgar downloads SEC filings and turns them into section text.
//
// The Client speaks the EDGAR submissions API and document archive. The
// Fetcher layers the form preference walk on top of any Source: for each
// form it downloads one filing, enumerates the document candidates, and
// accepts the first composite extraction of at least MinSectionLength
// characters. Everything short of that is an expected miss, reported as
// ErrNoFiling only once all forms are exhausted.
package edgar
