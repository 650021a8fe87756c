// Package tracker makes scraping runs incremental.
//
// The tracker scans every persisted results snapshot for competition URLs and
// selects, from a freshly discovered candidate list, only the competitions
// whose arr= identity has not been collected before. Candidates without an
// arr= parameter are always treated as new because they can never be matched
// against the store.
package tracker
