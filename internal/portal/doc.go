// Package portal holds the shared pieces of talking to the SNWK results
// portal: the configured HTTP client, the fixed endpoint and header set,
// URL normalization for the portal's relative links, and the context-aware
// delay used between outbound requests.
package portal
