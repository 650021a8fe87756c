// Package competition provides the record types and identity handling for
// SNWK competitions.
//
// The JSON field names on the persisted types are the wire format consumed by
// the statistics dashboard and are kept in Swedish verbatim. A competition's
// stable identity is the value of the arr= query parameter in its URL, which
// is the sole deduplication key across scraping runs.
package competition
