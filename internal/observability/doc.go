// Package observability records task activity as an append-only JSON Lines
// event log and derives usage metrics from it on demand.
package observability
