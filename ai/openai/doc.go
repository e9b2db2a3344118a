// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs.
//
// The embedder partitions inputs into fixed-size batches and retries failed
// batches with a linearly increasing sleep. Token-limit rejections trigger an
// escalating mitigation: every text in the batch is halved before the next
// attempt. A batch that exhausts all attempts degrades to zero-vector
// placeholders rather than failing the caller, preserving the one-vector-
// per-input contract.
package openai
