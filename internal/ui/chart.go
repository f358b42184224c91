package ui

import (
	"fmt"
	"strings"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

// chart.go renders the price history sparkline for the detail page.

var chartTicks = []rune("▁▂▃▄▅▆▇█")

// RenderPriceChart renders an oldest-to-newest price sparkline with min and
// max labels. Points without a price are drawn as gaps. Returns "" when
// fewer than two priced points exist, because a single point has no shape.
func RenderPriceChart(points []models.PricePoint, width int) string {
	prices := make([]*int, 0, len(points))
	min, max := 0, 0
	priced := 0
	for _, p := range points {
		prices = append(prices, p.PriceMinor)
		if p.PriceMinor == nil {
			continue
		}
		v := *p.PriceMinor
		if priced == 0 || v < min {
			min = v
		}
		if priced == 0 || v > max {
			max = v
		}
		priced++
	}
	if priced < 2 {
		return ""
	}

	// Downsample to the available width, keeping the newest points
	if width > 0 && len(prices) > width {
		prices = prices[len(prices)-width:]
	}

	span := max - min
	var b strings.Builder
	for _, p := range prices {
		if p == nil {
			b.WriteRune(' ')
			continue
		}
		idx := 0
		if span > 0 {
			idx = (*p - min) * (len(chartTicks) - 1) / span
		}
		b.WriteRune(chartTicks[idx])
	}

	line := AccentStyle.Render(b.String())
	label := DimStyle.Render(fmt.Sprintf("min %.2f  max %.2f", float64(min)/100, float64(max)/100))
	return line + "\n" + label
}

// FormatDelta renders the percent change of history[i] against the
// chronologically preceding capture. The history slice is newest first, so
// the preceding point is history[i+1]. Returns "" for the oldest point and
// whenever either price is missing; a preceding price of zero also yields
// "" because the ratio is undefined.
func FormatDelta(history []models.PricePoint, i int) string {
	if i < 0 || i+1 >= len(history) {
		return ""
	}
	cur := history[i].PriceMinor
	prev := history[i+1].PriceMinor
	if cur == nil || prev == nil || *prev == 0 {
		return ""
	}
	if *cur == *prev {
		return "0%"
	}
	pct := (float64(*cur) - float64(*prev)) / float64(*prev) * 100
	if pct > 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// StyleDelta colors a formatted delta: rises red, drops green.
func StyleDelta(delta string) string {
	if delta == "" {
		return ""
	}
	if strings.HasPrefix(delta, "+") {
		return PriceUpStyle.Render(delta)
	}
	if strings.HasPrefix(delta, "-") {
		return PriceDownStyle.Render(delta)
	}
	return DimStyle.Render(delta)
}
