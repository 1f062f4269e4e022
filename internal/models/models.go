package models

import (
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Item struct {
	ID                int        `json:"id" db:"id"`
	UserID            int        `json:"user_id" db:"user_id"`
	Name              string     `json:"name" db:"name"`
	Category          string     `json:"category" db:"category"`
	Barcode           *string    `json:"barcode,omitempty" db:"barcode"`
	Quantity          float64    `json:"quantity" db:"quantity"`
	Unit              string     `json:"unit" db:"unit"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	Location          string     `json:"location" db:"location"`
	LowStockThreshold float64    `json:"low_stock_threshold" db:"low_stock_threshold"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CSRFToken struct {
	Token     string    `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
