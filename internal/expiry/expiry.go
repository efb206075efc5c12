// Package expiry classifies items by how close their expiry date is.
package expiry

import (
	"math"
	"time"
)

// Status is the freshness classification of an item.
type Status string

// Statuses, ordered from best to worst.
const (
	StatusFresh    Status = "fresh"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// ExpiringWindowDays is the upper bound (inclusive) of the "expiring" band.
const ExpiringWindowDays = 7

// DaysUntil returns the number of calendar days from now until expiry,
// rounding fractional days up toward the future. An item expiring later
// today yields 0; one that expired more than a day ago yields a negative
// count.
func DaysUntil(expiryDate, now time.Time) int {
	return int(math.Ceil(expiryDate.Sub(now).Hours() / 24))
}

// Classify maps an expiry date and the current instant to a status and the
// signed day count. It is a pure function: the same pair of inputs always
// produces the same result, so callers must re-evaluate it at read time
// rather than caching the status on the item.
func Classify(expiryDate, now time.Time) (Status, int) {
	days := DaysUntil(expiryDate, now)
	switch {
	case days < 0:
		return StatusExpired, days
	case days <= ExpiringWindowDays:
		return StatusExpiring, days
	default:
		return StatusFresh, days
	}
}
