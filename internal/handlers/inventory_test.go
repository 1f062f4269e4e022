package handlers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"pantrylog/internal/models"
)

func strPtr(s string) *string { return &s }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestWriteInventoryCSV(t *testing.T) {
	items := []models.Item{
		{
			Name:              "Milk",
			Category:          "Dairy",
			Barcode:           strPtr("4001234567890"),
			Quantity:          0.5,
			Unit:              "L",
			ExpiryDate:        datePtr(2025, 6, 18),
			Location:          "Fridge",
			LowStockThreshold: 1,
		},
		{
			Name:              "Rice",
			Category:          "Other",
			Quantity:          10,
			Unit:              "kg",
			Location:          "Pantry",
			LowStockThreshold: 2,
		},
	}

	var buf bytes.Buffer
	if err := writeInventoryCSV(&buf, items); err != nil {
		t.Fatalf("writeInventoryCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "name,category,barcode,quantity,unit,expiry_date,location,low_stock_threshold" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "Milk,Dairy,4001234567890,0.5,L,2025-06-18,Fridge,1" {
		t.Errorf("unexpected milk row: %s", lines[1])
	}
	// missing barcode and expiry stay empty
	if lines[2] != "Rice,Other,,10,kg,,Pantry,2" {
		t.Errorf("unexpected rice row: %s", lines[2])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	original := []models.Item{
		{
			Name:              "Olive Oil, Extra Virgin",
			Category:          "Pantry Staples",
			Barcode:           strPtr("5001112223334"),
			Quantity:          0.75,
			Unit:              "L",
			ExpiryDate:        datePtr(2026, 1, 31),
			Location:          "Pantry",
			LowStockThreshold: 0.5,
		},
		{
			Name:              "Eggs",
			Category:          "Dairy",
			Quantity:          12,
			Unit:              "pcs",
			Location:          "Fridge",
			LowStockThreshold: 6,
		},
	}

	var buf bytes.Buffer
	if err := writeInventoryCSV(&buf, original); err != nil {
		t.Fatalf("writeInventoryCSV failed: %v", err)
	}

	parsed, skipped, err := parseInventoryCSV(&buf)
	if err != nil {
		t.Fatalf("parseInventoryCSV failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(parsed) != len(original) {
		t.Fatalf("got %d items, want %d", len(parsed), len(original))
	}

	for i, want := range original {
		got := parsed[i]
		if got.Name != want.Name || got.Category != want.Category ||
			got.Unit != want.Unit || got.Location != want.Location ||
			got.Quantity != want.Quantity || got.LowStockThreshold != want.LowStockThreshold {
			t.Errorf("item %d = %+v, want %+v", i, got, want)
		}
		switch {
		case want.Barcode == nil && got.Barcode != nil:
			t.Errorf("item %d: barcode should be empty", i)
		case want.Barcode != nil && (got.Barcode == nil || *got.Barcode != *want.Barcode):
			t.Errorf("item %d: barcode not round-tripped", i)
		}
		switch {
		case want.ExpiryDate == nil && got.ExpiryDate != nil:
			t.Errorf("item %d: expiry should be empty", i)
		case want.ExpiryDate != nil && (got.ExpiryDate == nil || !got.ExpiryDate.Equal(*want.ExpiryDate)):
			t.Errorf("item %d: expiry not round-tripped", i)
		}
	}
}

func TestParseInventoryCSVDefaults(t *testing.T) {
	// only two of the eight columns present, in reversed order
	input := "quantity,name\n3,Flour\n,\n"

	items, skipped, err := parseInventoryCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseInventoryCSV failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	flour := items[0]
	if flour.Name != "Flour" || flour.Quantity != 3 {
		t.Errorf("flour = %+v", flour)
	}
	if flour.Category != "Other" || flour.Unit != "pcs" || flour.Location != "Pantry" {
		t.Errorf("flour defaults not applied: %+v", flour)
	}
	if flour.LowStockThreshold != 5 {
		t.Errorf("flour threshold = %v, want 5", flour.LowStockThreshold)
	}

	blank := items[1]
	if blank.Name != "Unknown" || blank.Quantity != 1 {
		t.Errorf("blank row defaults not applied: %+v", blank)
	}
}

func TestParseInventoryCSVSkipsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"name,quantity,expiry_date,low_stock_threshold",
		"Good,2,2025-06-18,1",
		"BadQuantity,abc,2025-06-18,1",
		"BadDate,2,not-a-date,1",
		"BadThreshold,2,2025-06-18,xyz",
		"AlsoGood,4,,"}, "\n")

	items, skipped, err := parseInventoryCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseInventoryCSV failed: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[0].Name != "Good" || items[1].Name != "AlsoGood" {
		t.Errorf("wrong rows kept: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestParseInventoryCSVEmptyDocument(t *testing.T) {
	if _, _, err := parseInventoryCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestParseInventoryCSVMalformed(t *testing.T) {
	// unterminated quote makes the whole document unreadable
	input := "name,quantity\n\"Broken,2\nNext,3"

	if _, _, err := parseInventoryCSV(strings.NewReader(input)); err == nil {
		t.Error("expected error for malformed document")
	}
}
