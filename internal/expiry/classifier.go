package expiry

import (
	"time"

	"freshtrack/internal/models"
)

// expiringSoonWindow is the number of days before expiry at which a batch
// starts counting as "Expiring Soon". Day 0 (expires today) is still
// Expiring Soon, not Expired.
const expiringSoonWindow = 7

// DaysToExpiry returns the whole number of calendar days between the
// reference date and the expiry date. Negative when already expired.
// Time-of-day components are discarded so that "today" never straddles
// a boundary mid-day.
func DaysToExpiry(expiryDate, referenceDate time.Time) int {
	expiry := truncateToDay(expiryDate)
	reference := truncateToDay(referenceDate)
	return int(expiry.Sub(reference).Hours() / 24)
}

// Classify derives the freshness status of a batch from its expiry date.
func Classify(expiryDate, referenceDate time.Time) models.BatchStatus {
	days := DaysToExpiry(expiryDate, referenceDate)
	switch {
	case days < 0:
		return models.StatusExpired
	case days <= expiringSoonWindow:
		return models.StatusExpiringSoon
	default:
		return models.StatusSafe
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
