// Package results parses a competition's result subpages into one typed
// record.
//
// This is the heuristic heart of the pipeline. Competition metadata comes
// from the free-text listing label via per-field rule lists; the discipline
// of a subpage is often only recoverable from context established by an
// earlier subpage and is threaded through the subpage loop as an explicit
// accumulator; participant rows are scanned with independent, optional field
// extractors because the portal's markup is inconsistent. The heuristics are
// deliberately tied to the current site structure and make no attempt to
// survive arbitrary redesigns.
//
// Failure is all-or-nothing per competition: one bad subpage discards every
// subpage already parsed for that competition.
package results
