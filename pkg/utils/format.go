// Package utils provides shared presentation helpers used by every renderer.
package utils

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// HumanVolume formats a share volume compactly: 1,000,000 and above in
// millions ("1.2M"), 1,000 and above in thousands ("1.5k"), everything
// smaller as a plain integer ("999").
func HumanVolume(v float64) string {
	a := math.Abs(v)
	switch {
	case a >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case a >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%d", int64(v))
	}
}

// HumanVolumePtr is HumanVolume for nullable values; nil renders empty.
func HumanVolumePtr(v *float64) string {
	if v == nil {
		return ""
	}
	return HumanVolume(*v)
}

// ChartLink returns the external chart URL for a symbol.
func ChartLink(symbol string) string {
	return "https://www.tradingview.com/chart/?symbol=" + url.QueryEscape(strings.ToUpper(symbol))
}

// FormatPercent formats a percentage with an explicit sign for gains.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPrice formats a price, keeping extra precision under 10.
func FormatPrice(price float64) string {
	if price < 10 {
		return fmt.Sprintf("%.4f", price)
	}
	return fmt.Sprintf("%.2f", price)
}
