package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// Minimum column widths for the product table
const (
	ColWidthSel     = 3
	ColWidthOrdinal = 6
	ColWidthSite    = 12
	ColWidthPrice   = 12
	ColWidthRating  = 7
	ColWidthRatings = 8
	ColWidthSeen    = 11
	// separators between 9 columns at 2 spaces each
	ColSeparators = 16
)

// productColumnTitles maps sort columns to their header labels, in table
// order after the checkbox and id columns.
var productColumnTitles = map[string]string{
	SortByTitle:     "Title",
	SortBySite:      "Site",
	SortByPrice:     "Price",
	SortByRating:    "Rating",
	SortByRatings:   "Reviews",
	SortByFirstSeen: "First Seen",
	SortByLastSeen:  "Last Seen",
}

// BuildProductColumns creates the product table columns for the layout,
// giving the title column all remaining width. The sorted column's header
// carries a direction arrow.
func BuildProductColumns(layout Layout, sort Sort) []table.Column {
	fixed := ColWidthSel + ColWidthOrdinal + ColWidthSite + ColWidthPrice +
		ColWidthRating + ColWidthRatings + ColWidthSeen*2 + ColSeparators
	titleWidth := layout.TableWidth - fixed
	if titleWidth < 20 {
		titleWidth = 20
	}

	header := func(col string) string {
		label := productColumnTitles[col]
		if sort.Column != col {
			return label
		}
		if sort.Desc {
			return label + " ↓"
		}
		return label + " ↑"
	}

	return []table.Column{
		{Title: " ", Width: ColWidthSel},
		{Title: "#", Width: ColWidthOrdinal},
		{Title: header(SortByTitle), Width: titleWidth},
		{Title: header(SortBySite), Width: ColWidthSite},
		{Title: header(SortByPrice), Width: ColWidthPrice},
		{Title: header(SortByRating), Width: ColWidthRating},
		{Title: header(SortByRatings), Width: ColWidthRatings},
		{Title: header(SortByFirstSeen), Width: ColWidthSeen},
		{Title: header(SortByLastSeen), Width: ColWidthSeen},
	}
}

// BuildProductRow renders one product as a table row. ordinal is the row's
// running number across the whole listing, not its product id.
func BuildProductRow(p models.Product, ordinal int, selected bool) table.Row {
	check := "[ ]"
	if selected {
		check = "[x]"
	}
	return table.Row{
		check,
		fmt.Sprintf("%d", ordinal),
		p.Title,
		p.SiteName,
		FormatPrice(p.LastPrice, p.Currency),
		FormatRating(p.Rating),
		FormatCount(p.RatingsCount),
		FormatDate(p.FirstSeenAt),
		FormatDate(p.LastSeenAt),
	}
}

// FormatPrice renders a minor-unit price with its currency, or a dash when
// no price was captured.
func FormatPrice(minor *int, currency *string) string {
	if minor == nil {
		return "-"
	}
	cur := ""
	if currency != nil {
		cur = " " + *currency
	}
	return fmt.Sprintf("%.2f%s", float64(*minor)/100, cur)
}

// FormatRating renders a rating to two decimals, or a dash.
func FormatRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *r)
}

// FormatCount renders an optional count, or a dash.
func FormatCount(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

// FormatDate trims a backend timestamp down to its date part.
func FormatDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "-"
	}
	return ts
}
