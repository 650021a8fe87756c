// Package lister discovers competitions on the SNWK results portal.
//
// The portal's listing endpoint answers a form-encoded POST per year and
// competition type with a JSON envelope whose body field holds an HTML
// fragment. The lister parses the fragment's anchors and keeps the ones that
// look like competition links. Every failure mode (network, bad JSON,
// missing body) degrades to an empty list: callers must treat an empty list
// as "no data this call", not "confirmed no competitions".
package lister
