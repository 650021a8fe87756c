// Package subpage extracts a competition's child result pages.
//
// The portal does not link sub-results with anchor tags: the links sit in
// button onclick handlers of the form onclick="location='?page=...'". A
// button qualifies when its visible text contains "Visa" and its handler
// contains location=. Extraction failures are soft: they travel as an error
// field on the returned data so the run can move on to the next competition.
package subpage
