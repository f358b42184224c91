package ui

import (
	"testing"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(nil, nil); got != "-" {
		t.Errorf("expected dash for missing price, got %q", got)
	}
	if got := FormatPrice(intPtr(12999), strPtr("RON")); got != "129.99 RON" {
		t.Errorf("expected '129.99 RON', got %q", got)
	}
	if got := FormatPrice(intPtr(500), nil); got != "5.00" {
		t.Errorf("expected '5.00' without currency, got %q", got)
	}
}

func TestFormatRatingAndCount(t *testing.T) {
	if got := FormatRating(nil); got != "-" {
		t.Errorf("expected dash, got %q", got)
	}
	if got := FormatRating(floatPtr(4.5)); got != "4.50" {
		t.Errorf("expected '4.50', got %q", got)
	}
	if got := FormatCount(nil); got != "-" {
		t.Errorf("expected dash, got %q", got)
	}
	if got := FormatCount(intPtr(321)); got != "321" {
		t.Errorf("expected '321', got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-08-12T09:30:00Z"); got != "2026-08-12" {
		t.Errorf("expected date part, got %q", got)
	}
	if got := FormatDate(""); got != "-" {
		t.Errorf("expected dash for empty, got %q", got)
	}
}

func TestBuildProductRowCheckboxAndOrdinal(t *testing.T) {
	p := models.Product{ID: 3, Title: "Widget", SiteName: "shop-a"}

	row := BuildProductRow(p, 14, false)
	if row[0] != "[ ]" {
		t.Errorf("expected unchecked box, got %q", row[0])
	}
	if row[1] != "14" {
		t.Errorf("expected ordinal 14, got %q", row[1])
	}
	row = BuildProductRow(p, 14, true)
	if row[0] != "[x]" {
		t.Errorf("expected checked box, got %q", row[0])
	}
}

func TestListStateOrdinal(t *testing.T) {
	s := NewListState()
	s.SetPerPage(25)
	s.SetTotal(100)
	s.SetPage(3)
	if got := s.Ordinal(0); got != 51 {
		t.Errorf("expected first row of page 3 to be 51, got %d", got)
	}
	if got := s.Ordinal(24); got != 75 {
		t.Errorf("expected last row of page 3 to be 75, got %d", got)
	}
}

func TestBuildProductColumnsSortArrow(t *testing.T) {
	layout := DefaultLayout()

	cols := BuildProductColumns(layout, Sort{Column: SortByPrice, Desc: false})
	if cols[4].Title != "Price ↑" {
		t.Errorf("expected ascending arrow on price, got %q", cols[4].Title)
	}

	cols = BuildProductColumns(layout, Sort{Column: SortByPrice, Desc: true})
	if cols[4].Title != "Price ↓" {
		t.Errorf("expected descending arrow on price, got %q", cols[4].Title)
	}

	cols = BuildProductColumns(layout, Sort{})
	if cols[4].Title != "Price" {
		t.Errorf("expected no arrow without sort, got %q", cols[4].Title)
	}
}
