// Package cli implements the snwk-scrape command: the sequential pipeline
// that discovers competitions, skips already-collected ones, extracts and
// parses result subpages, and persists timestamped JSON snapshots.
//
// Settings come from flags, optionally layered over a YAML config file;
// flags win. An interrupt is treated as a clean stop, not a failure.
package cli
