package handlers

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pantrylog/internal/database"
	"pantrylog/internal/models"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

// Bare-bones templates that echo the data the real pages would render,
// enough to assert on notices and preserved form values.
var testTemplates = template.Must(template.New("test").Parse(`
{{define "items.html"}}horizon={{.ExpiryHorizon}};error={{.Error}};success={{.Success}}{{end}}
{{define "item_form.html"}}error={{.Error}};name={{.Form.Name}};category={{.Form.Category}};barcode={{.Form.Barcode}};quantity={{.Form.Quantity}};expiry={{.Form.ExpiryDate}};threshold={{.Form.Threshold}}{{end}}
{{define "error.html"}}error={{.Error}}{{end}}
`))

func setupTestRouter(t *testing.T) (*sql.DB, *gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	user, err := database.CreateUser(db, "Test User", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(testTemplates)
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("user", user)
		c.Set("user_id", user.ID)
	})
	r.GET("/items", handleItems)
	r.POST("/item/add", handleAddItem)
	r.POST("/item/:id/edit", handleUpdateItem)

	return db, r, user
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateItemInvalidQuantityChangesNothing(t *testing.T) {
	db, r, user := setupTestRouter(t)

	expiry := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	item, err := database.CreateItem(db, user.ID, models.Item{
		Name:              "Milk",
		Category:          "Dairy",
		Barcode:           strPtr("4001234567890"),
		Quantity:          2,
		Unit:              "L",
		ExpiryDate:        &expiry,
		Location:          "Fridge",
		LowStockThreshold: 1,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	w := postForm(r, fmt.Sprintf("/item/%d/edit", item.ID), url.Values{
		"name":     {"Changed"},
		"category": {"Changed"},
		"quantity": {"abc"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "Quantity must be") {
		t.Errorf("expected quantity validation message, got: %s", w.Body.String())
	}

	stored, err := database.GetItem(db, user.ID, item.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.Name != "Milk" || stored.Category != "Dairy" {
		t.Errorf("name/category changed despite failed update: %q/%q", stored.Name, stored.Category)
	}
	if stored.Quantity != 2 || stored.Unit != "L" || stored.Location != "Fridge" || stored.LowStockThreshold != 1 {
		t.Errorf("fields changed despite failed update: %+v", stored)
	}
	if stored.Barcode == nil || *stored.Barcode != "4001234567890" {
		t.Errorf("barcode changed despite failed update: %v", stored.Barcode)
	}
	if stored.ExpiryDate == nil || !stored.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry changed despite failed update: %v", stored.ExpiryDate)
	}
}

func TestUpdateItemEmptyExpiryClearsDateOnly(t *testing.T) {
	db, r, user := setupTestRouter(t)

	expiry := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	item, err := database.CreateItem(db, user.ID, models.Item{
		Name:              "Yogurt",
		Category:          "Dairy",
		Quantity:          4,
		Unit:              "pcs",
		ExpiryDate:        &expiry,
		Location:          "Fridge",
		LowStockThreshold: 2,
	})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	// Only the expiry field is posted; everything else is absent
	w := postForm(r, fmt.Sprintf("/item/%d/edit", item.ID), url.Values{
		"expiry_date": {""},
	})

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusFound, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/items?success=updated" {
		t.Errorf("redirect = %q, want /items?success=updated", loc)
	}

	stored, err := database.GetItem(db, user.ID, item.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.ExpiryDate != nil {
		t.Errorf("expiry should be cleared, got %v", stored.ExpiryDate)
	}
	if stored.Name != "Yogurt" || stored.Quantity != 4 || stored.LowStockThreshold != 2 {
		t.Errorf("absent fields should stay unchanged: %+v", stored)
	}
}

func TestAddItemInvalidQuantityKeepsInput(t *testing.T) {
	db, r, user := setupTestRouter(t)

	w := postForm(r, "/item/add", url.Values{
		"name":                {"Tomatoes"},
		"category":            {"Produce"},
		"barcode":             {"1112223334445"},
		"quantity":            {"abc"},
		"expiry_date":         {"2025-06-18"},
		"low_stock_threshold": {"2"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Quantity must be",
		"name=Tomatoes",
		"category=Produce",
		"barcode=1112223334445",
		"quantity=abc",
		"expiry=2025-06-18",
		"threshold=2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("re-rendered form should contain %q, got: %s", want, body)
		}
	}

	items, err := database.ListItems(db, user.ID, "", "")
	if err != nil {
		t.Fatalf("failed to list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("failed add created %d items, want 0", len(items))
	}
}

func TestItemsPageSharesExpiryHorizon(t *testing.T) {
	_, r, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/items", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := fmt.Sprintf("horizon=%d", models.ExpiryHorizonDays)
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("items page should carry %q, got: %s", want, w.Body.String())
	}
}
