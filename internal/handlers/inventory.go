package handlers

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pantrylog/internal/database"
	"pantrylog/internal/logger"
	"pantrylog/internal/models"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 * 1024 * 1024

var csvHeader = []string{"name", "category", "barcode", "quantity", "unit", "expiry_date", "location", "low_stock_threshold"}

func handleItems(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	search := strings.TrimSpace(c.Query("search"))
	categoryFilter := strings.TrimSpace(c.Query("category"))

	items, err := database.ListItems(db, userID, search, categoryFilter)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "items.html", gin.H{
			"Title": "Items - Pantrylog",
			"User":  user,
			"Error": "Failed to load items",
		})
		return
	}

	categories, err := database.GetItemCategories(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "items.html", gin.H{
			"Title": "Items - Pantrylog",
			"User":  user,
			"Error": "Failed to load categories",
		})
		return
	}

	csrfToken, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "items.html", gin.H{
			"Title": "Items - Pantrylog",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "items.html", gin.H{
		"Title":          "Items - Pantrylog",
		"User":           user,
		"Items":          items,
		"Categories":     categories,
		"Search":         search,
		"CategoryFilter": categoryFilter,
		"CSRFToken":      csrfToken.Token,
		"Today":          time.Now(),
		"ExpiryHorizon":  models.ExpiryHorizonDays,
		"Error":          itemsErrorNotice(c.Query("error")),
		"Success":        itemsSuccessNotice(c),
	})
}

func itemsErrorNotice(code string) string {
	switch code {
	case "unauthorized":
		return "You are not allowed to modify that item"
	case "no_file":
		return "No file selected"
	case "invalid_file":
		return "Only CSV files are allowed"
	case "import_failed":
		return "Error importing CSV"
	default:
		return ""
	}
}

func itemsSuccessNotice(c *gin.Context) string {
	if count := c.Query("imported"); count != "" {
		return fmt.Sprintf("Successfully imported %s items!", count)
	}
	switch c.Query("success") {
	case "added":
		return "Item added successfully!"
	case "updated":
		return "Item updated successfully!"
	case "deleted":
		return "Item deleted successfully!"
	default:
		return ""
	}
}

// itemForm carries the item fields as the raw strings the user typed, so a
// validation failure can re-render the form without losing input.
type itemForm struct {
	Name       string
	Category   string
	Barcode    string
	Quantity   string
	Unit       string
	ExpiryDate string
	Location   string
	Threshold  string
}

func formFromItem(item *models.Item) itemForm {
	form := itemForm{
		Name:      item.Name,
		Category:  item.Category,
		Unit:      item.Unit,
		Location:  item.Location,
		Quantity:  strconv.FormatFloat(item.Quantity, 'f', -1, 64),
		Threshold: strconv.FormatFloat(item.LowStockThreshold, 'f', -1, 64),
	}
	if item.Barcode != nil {
		form.Barcode = *item.Barcode
	}
	if item.ExpiryDate != nil {
		form.ExpiryDate = item.ExpiryDate.Format("2006-01-02")
	}
	return form
}

// readItemForm overlays posted fields onto base. A field absent from the
// request keeps the base value, so on the edit path an omitted input leaves
// the stored value unchanged while a present-but-empty one takes effect.
func readItemForm(c *gin.Context, base itemForm) itemForm {
	if v, ok := c.GetPostForm("name"); ok {
		base.Name = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("category"); ok {
		base.Category = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("barcode"); ok {
		base.Barcode = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("quantity"); ok {
		base.Quantity = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("unit"); ok {
		base.Unit = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("expiry_date"); ok {
		base.ExpiryDate = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("location"); ok {
		base.Location = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("low_stock_threshold"); ok {
		base.Threshold = strings.TrimSpace(v)
	}
	return base
}

// parse validates the whole form before anything touches the store; a single
// bad field fails the request with no partial write.
func (f itemForm) parse() (models.Item, error) {
	if f.Name == "" {
		return models.Item{}, fmt.Errorf("Item name is required")
	}

	quantity, err := strconv.ParseFloat(f.Quantity, 64)
	if err != nil || quantity < 0 {
		return models.Item{}, fmt.Errorf("Quantity must be a non-negative number")
	}

	threshold, err := strconv.ParseFloat(f.Threshold, 64)
	if err != nil || threshold < 0 {
		return models.Item{}, fmt.Errorf("Low stock threshold must be a non-negative number")
	}

	var expiryDate *time.Time
	if f.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", f.ExpiryDate)
		if err != nil {
			return models.Item{}, fmt.Errorf("Invalid date format")
		}
		expiryDate = &parsed
	}

	item := models.Item{
		Name:              f.Name,
		Category:          f.Category,
		Quantity:          quantity,
		Unit:              f.Unit,
		ExpiryDate:        expiryDate,
		Location:          f.Location,
		LowStockThreshold: threshold,
	}
	if item.Category == "" {
		item.Category = "Other"
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}
	if item.Location == "" {
		item.Location = "Pantry"
	}
	if f.Barcode != "" {
		barcode := f.Barcode
		item.Barcode = &barcode
	}

	return item, nil
}

func handleAddItemPage(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	csrfToken, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "item_form.html", gin.H{
			"Title": "Add Item - Pantrylog",
			"User":  user,
			"Mode":  "add",
			"Form":  itemForm{},
			"Error": "Failed to generate security token",
		})
		return
	}

	form := itemForm{}
	// The scan page hands off here with the decoded barcode
	form.Barcode = strings.TrimSpace(c.Query("barcode"))

	c.HTML(http.StatusOK, "item_form.html", gin.H{
		"Title":     "Add Item - Pantrylog",
		"User":      user,
		"Mode":      "add",
		"Form":      form,
		"CSRFToken": csrfToken.Token,
	})
}

func handleAddItem(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	form := readItemForm(c, itemForm{})

	renderError := func(msg string) {
		csrfToken, _ := database.CreateCSRFToken(db, userID)
		c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
			"Title":     "Add Item - Pantrylog",
			"User":      user,
			"Mode":      "add",
			"Form":      form,
			"Error":     msg,
			"CSRFToken": csrfTokenValue(csrfToken),
		})
	}

	// Blank numbers fall back to defaults on the add path only
	parseForm := form
	if parseForm.Quantity == "" {
		parseForm.Quantity = "0"
	}
	if parseForm.Threshold == "" {
		parseForm.Threshold = "5"
	}

	item, err := parseForm.parse()
	if err != nil {
		renderError(err.Error())
		return
	}

	if _, err := database.CreateItem(db, userID, item); err != nil {
		logger.Error("Failed to create item",
			"user_id", userID,
			"error", err)
		renderError("Failed to create item")
		return
	}

	c.Redirect(http.StatusFound, "/items?success=added")
}

func handleEditItemPage(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	item, ok := loadOwnedItem(c, db, userID)
	if !ok {
		return
	}

	csrfToken, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "item_form.html", gin.H{
			"Title":  "Edit Item - Pantrylog",
			"User":   user,
			"Mode":   "edit",
			"Form":   formFromItem(item),
			"ItemID": item.ID,
			"Error":  "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "item_form.html", gin.H{
		"Title":     "Edit Item - Pantrylog",
		"User":      user,
		"Mode":      "edit",
		"Form":      formFromItem(item),
		"ItemID":    item.ID,
		"CSRFToken": csrfToken.Token,
	})
}

func handleUpdateItem(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	item, ok := loadOwnedItem(c, db, userID)
	if !ok {
		return
	}

	form := readItemForm(c, formFromItem(item))

	renderError := func(msg string) {
		csrfToken, _ := database.CreateCSRFToken(db, userID)
		c.HTML(http.StatusBadRequest, "item_form.html", gin.H{
			"Title":     "Edit Item - Pantrylog",
			"User":      user,
			"Mode":      "edit",
			"Form":      form,
			"ItemID":    item.ID,
			"Error":     msg,
			"CSRFToken": csrfTokenValue(csrfToken),
		})
	}

	updated, err := form.parse()
	if err != nil {
		renderError(err.Error())
		return
	}

	if err := database.UpdateItem(db, userID, item.ID, updated); err != nil {
		if strings.Contains(err.Error(), "not found") {
			handleNotFound(c)
			return
		}
		logger.Error("Failed to update item",
			"user_id", userID,
			"item_id", item.ID,
			"error", err)
		renderError("Failed to update item")
		return
	}

	c.Redirect(http.StatusFound, "/items?success=updated")
}

func handleDeleteItem(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	item, ok := loadOwnedItem(c, db, userID)
	if !ok {
		return
	}

	if err := database.DeleteItem(db, userID, item.ID); err != nil {
		c.Redirect(http.StatusFound, "/items")
		return
	}

	c.Redirect(http.StatusFound, "/items?success=deleted")
}

// loadOwnedItem resolves the :id path parameter to an item owned by the
// caller. An unknown id is a 404; someone else's item redirects with a notice
// that leaks nothing about the record.
func loadOwnedItem(c *gin.Context, db *sql.DB, userID int) (*models.Item, bool) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		handleNotFound(c)
		return nil, false
	}

	item, err := database.GetItemByID(db, itemID)
	if err != nil {
		handleNotFound(c)
		return nil, false
	}

	if item.UserID != userID {
		logger.Warn("Cross-user item access attempt",
			"user_id", userID,
			"item_id", itemID)
		c.Redirect(http.StatusFound, "/items?error=unauthorized")
		c.Abort()
		return nil, false
	}

	return item, true
}

func csrfTokenValue(token *models.CSRFToken) string {
	if token == nil {
		return ""
	}
	return token.Token
}

func handleExportCSV(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	items, err := database.ListItems(db, userID, "", "")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load inventory")
		return
	}

	var buf bytes.Buffer
	if err := writeInventoryCSV(&buf, items); err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("inventory_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func handleImportCSV(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.Redirect(http.StatusFound, "/items?error=no_file")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.Redirect(http.StatusFound, "/items?error=no_file")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.Redirect(http.StatusFound, "/items?error=invalid_file")
		return
	}
	if header.Size > maxImportSize {
		c.Redirect(http.StatusFound, "/items?error=invalid_file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		c.Redirect(http.StatusFound, "/items?error=import_failed")
		return
	}
	if !utf8.Valid(data) {
		c.Redirect(http.StatusFound, "/items?error=import_failed")
		return
	}

	items, skipped, err := parseInventoryCSV(bytes.NewReader(data))
	if err != nil {
		logger.Warn("CSV import failed",
			"user_id", userID,
			"error", err)
		c.Redirect(http.StatusFound, "/items?error=import_failed")
		return
	}

	imported := 0
	for _, item := range items {
		if _, err := database.CreateItem(db, userID, item); err != nil {
			logger.Warn("Failed to insert imported item",
				"user_id", userID,
				"error", err)
			continue
		}
		imported++
	}

	if skipped > 0 {
		logger.Info("Skipped unparsable CSV rows",
			"user_id", userID,
			"skipped", skipped)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/items?imported=%d", imported))
}

func writeInventoryCSV(w io.Writer, items []models.Item) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range items {
		if err := writer.Write(itemCSVRecord(&items[i])); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

func itemCSVRecord(item *models.Item) []string {
	barcode := ""
	if item.Barcode != nil {
		barcode = *item.Barcode
	}

	expiryDate := ""
	if item.ExpiryDate != nil {
		expiryDate = item.ExpiryDate.Format("2006-01-02")
	}

	return []string{
		item.Name,
		item.Category,
		barcode,
		strconv.FormatFloat(item.Quantity, 'f', -1, 64),
		item.Unit,
		expiryDate,
		item.Location,
		strconv.FormatFloat(item.LowStockThreshold, 'f', -1, 64),
	}
}

// parseInventoryCSV reads a header-delimited CSV document and returns the
// parseable rows as items plus the count of rows that were skipped. Rows fail
// individually; an unreadable document fails as a whole.
func parseInventoryCSV(r io.Reader) ([]models.Item, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var items []models.Item
	skipped := 0
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("CSV parse error at line %d: %w", line+1, err)
		}
		line++

		item := models.Item{
			Name:              field(record, "name"),
			Category:          field(record, "category"),
			Unit:              field(record, "unit"),
			Location:          field(record, "location"),
			Quantity:          1,
			LowStockThreshold: 5,
		}

		if item.Name == "" {
			item.Name = "Unknown"
		}
		if item.Category == "" {
			item.Category = "Other"
		}
		if item.Unit == "" {
			item.Unit = "pcs"
		}
		if item.Location == "" {
			item.Location = "Pantry"
		}

		if barcode := field(record, "barcode"); barcode != "" {
			item.Barcode = &barcode
		}

		rowOK := true

		if quantityStr := field(record, "quantity"); quantityStr != "" {
			quantity, err := strconv.ParseFloat(quantityStr, 64)
			if err != nil {
				logger.Warn("Skipping CSV row with invalid quantity",
					"line", line,
					"error", err)
				rowOK = false
			} else {
				item.Quantity = quantity
			}
		}

		if rowOK {
			if thresholdStr := field(record, "low_stock_threshold"); thresholdStr != "" {
				threshold, err := strconv.ParseFloat(thresholdStr, 64)
				if err != nil {
					logger.Warn("Skipping CSV row with invalid threshold",
						"line", line,
						"error", err)
					rowOK = false
				} else {
					item.LowStockThreshold = threshold
				}
			}
		}

		if rowOK {
			if expiryStr := field(record, "expiry_date"); expiryStr != "" {
				parsed, err := time.Parse("2006-01-02", expiryStr)
				if err != nil {
					logger.Warn("Skipping CSV row with invalid expiry date",
						"line", line,
						"error", err)
					rowOK = false
				} else {
					item.ExpiryDate = &parsed
				}
			}
		}

		if !rowOK {
			skipped++
			continue
		}

		items = append(items, item)
	}

	return items, skipped, nil
}
