package types

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber renders a count with thousands separators, or "n/a"
func FormatNumber(n *int) string {
	if n == nil {
		return "n/a"
	}
	return numberPrinter.Sprintf("%d", *n)
}

// FormatBytes renders a byte count in B, KB, MB or GB. Values under ten
// keep one decimal once scaled.
func FormatBytes(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}
	precision := 0
	if size < 10 && unit > 0 {
		precision = 1
	}
	return fmt.Sprintf("%.*f %s", precision, size, units[unit])
}
