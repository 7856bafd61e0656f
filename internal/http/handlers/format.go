package handlers

import (
	"fmt"
	"math"
)

// percentOf returns n as a whole percentage of max, for bar widths.
func percentOf(n, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(max)))
}

// shareOf returns n as a percentage of total with one decimal.
func shareOf(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(n)*1000/float64(total)) / 10
}

// binLabel formats a histogram bin range, e.g. "6.4-6.8".
func binLabel(lower, upper float64) string {
	return fmt.Sprintf("%.1f-%.1f", lower, upper)
}
