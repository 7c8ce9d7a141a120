// Package simerr holds the two failure categories every simulation action reports.
// Concrete errors wrap one of them so callers can branch on the category with errors.Is.
package simerr

import "errors"

var (
	// ErrValidation marks a rejected action: insufficient funds, over-sell, thresholds.
	ErrValidation = errors.New("validation failure")
	// ErrLookup marks an unknown symbol, instrument, shareholder or holding.
	ErrLookup = errors.New("lookup failure")
)
