package database

import (
	"database/sql"
	"time"

	"pantrylog/internal/models"
)

type UserStats struct {
	TotalItems        int `json:"total_items"`
	LowStockCount     int `json:"low_stock_count"`
	ExpiringSoonCount int `json:"expiring_soon_count"`
	ExpiredCount      int `json:"expired_count"`
}

// GetUserStats counts the user's items per status predicate as of today.
// The counting runs in Go rather than SQL so that the predicate methods stay
// the single source of truth for the date window arithmetic.
func GetUserStats(db *sql.DB, userID int, today time.Time) (*UserStats, error) {
	items, err := ListItems(db, userID, "", "")
	if err != nil {
		return nil, err
	}

	stats := &UserStats{TotalItems: len(items)}
	for i := range items {
		item := &items[i]
		if item.IsLowStock() {
			stats.LowStockCount++
		}
		if item.IsExpiringSoon(today, models.ExpiryHorizonDays) {
			stats.ExpiringSoonCount++
		}
		if item.IsExpired(today) {
			stats.ExpiredCount++
		}
	}

	return stats, nil
}
