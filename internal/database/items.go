package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pantrylog/internal/models"
)

const itemColumns = `id, user_id, name, category, barcode, quantity, unit, expiry_date, location, low_stock_threshold, created_at`

func scanItem(row interface {
	Scan(dest ...interface{}) error
}) (*models.Item, error) {
	var item models.Item
	var barcode sql.NullString
	var expiryDate sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Category,
		&barcode,
		&item.Quantity,
		&item.Unit,
		&expiryDate,
		&item.Location,
		&item.LowStockThreshold,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if barcode.Valid {
		item.Barcode = &barcode.String
	}
	if expiryDate.Valid {
		item.ExpiryDate = &expiryDate.Time
	}

	return &item, nil
}

func CreateItem(db *sql.DB, userID int, item models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (user_id, name, category, barcode, quantity, unit, expiry_date, location, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, userID, item.Name, item.Category, item.Barcode,
		item.Quantity, item.Unit, item.ExpiryDate, item.Location, item.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item ID: %w", err)
	}

	item.ID = int(id)
	item.UserID = userID
	item.CreatedAt = time.Now()

	return &item, nil
}

// ListItems returns the user's items newest first, optionally narrowed by a
// case-insensitive substring match on name and an exact category match.
func ListItems(db *sql.DB, userID int, search, category string) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	if search != "" {
		query += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func GetItem(db *sql.DB, userID, itemID int) (*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = ? AND user_id = ?
	`

	item, err := scanItem(db.QueryRow(query, itemID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return item, nil
}

// GetItemByID loads an item regardless of owner. Callers must compare the
// item's UserID against the requesting user before acting on it.
func GetItemByID(db *sql.DB, itemID int) (*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = ?
	`

	item, err := scanItem(db.QueryRow(query, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return item, nil
}

// UpdateItem overwrites every mutable field of the item in a single statement;
// user_id and created_at never change.
func UpdateItem(db *sql.DB, userID, itemID int, updatedItem models.Item) error {
	query := `
		UPDATE items
		SET name = ?, category = ?, barcode = ?, quantity = ?, unit = ?,
		    expiry_date = ?, location = ?, low_stock_threshold = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, updatedItem.Name, updatedItem.Category, updatedItem.Barcode,
		updatedItem.Quantity, updatedItem.Unit, updatedItem.ExpiryDate, updatedItem.Location,
		updatedItem.LowStockThreshold, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item not found")
	}

	return nil
}

func DeleteItem(db *sql.DB, userID, itemID int) error {
	query := `
		DELETE FROM items
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item not found")
	}

	return nil
}

// GetItemCategories returns the distinct categories currently in use by the
// user's items, for the filter dropdown.
func GetItemCategories(db *sql.DB, userID int) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM items
		WHERE user_id = ?
		ORDER BY category
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
