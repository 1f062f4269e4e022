package models

import (
	"time"
)

// ExpiryHorizonDays is the forward window used for the expiring-soon check.
const ExpiryHorizonDays = 7

// IsExpired reports whether the item's expiry date is strictly before today.
// Comparison is date-only; an item expiring today is not yet expired.
func (i *Item) IsExpired(today time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return truncateToDate(*i.ExpiryDate).Before(truncateToDate(today))
}

// IsExpiringSoon reports whether the item's expiry date falls within
// horizonDays of today, inclusive on both ends.
func (i *Item) IsExpiringSoon(today time.Time, horizonDays int) bool {
	if i.ExpiryDate == nil {
		return false
	}
	daysLeft := int(truncateToDate(*i.ExpiryDate).Sub(truncateToDate(today)).Hours() / 24)
	return daysLeft >= 0 && daysLeft <= horizonDays
}

// IsLowStock reports whether quantity has fallen strictly below the
// configured threshold. Equal to the threshold is not low stock.
func (i *Item) IsLowStock() bool {
	return i.Quantity < i.LowStockThreshold
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
