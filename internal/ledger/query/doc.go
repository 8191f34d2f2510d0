// Package query filters, orders and paginates transaction snapshots.
//
// Every function works on the slice it is given and never retains or mutates
// it. Results are ordered by transaction date, newest first, with ties broken
// by the higher id first.
package query
