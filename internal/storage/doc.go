// Package storage provides JSON-based persistence for scraping snapshots.
//
// Each run writes new timestamped files (prefix_YYYYMMDD_HHMMSS.json) into
// the data directory and never mutates existing ones; the pipeline's history
// is the append-only set of snapshot files. The default storage location is
// ./data.
package storage
