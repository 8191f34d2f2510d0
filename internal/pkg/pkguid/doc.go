// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the small interfaces in uid.go rather than on a concrete
// strategy. Three generators are available:
//   - UUID strings, used for request correlation IDs.
//   - Snowflake numbers, used for time-ordered change event IDs.
//   - Sequence numbers, a resettable counter used for transaction record IDs.
package pkguid
