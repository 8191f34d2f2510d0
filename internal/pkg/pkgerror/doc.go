// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Storage code returns the sentinels (ErrNotFound, ErrConflict) and business
// code converts them into *Error values. An *Error carries a user-facing
// message, a Type and a Code; the Code is mapped to an HTTP status at the edge.
package pkgerror
