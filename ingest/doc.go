// Package ingest drives the end-to-end index build.
//
// A Builder loads the issuer registry, fans issuer processing out over a
// bounded worker pool, and consumes results on the driver goroutine, which
// is the only place writes happen. Staged records are flushed to the writer
// in fixed-size batches with a final partial flush after the pool drains.
//
// One issuer's failure never affects another: workers report a result
// variant per issuer and the driver only counts them.
package ingest
