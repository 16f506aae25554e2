package exporter

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pulse/internal/catalog"
)

// printer groups thousands the way US-market users expect ($1,250,000).
var printer = message.NewPrinter(language.English)

// FormatValue renders a raw layer value per its unit's display rule.
func FormatValue(unit catalog.Unit, v float64) string {
	switch unit {
	case catalog.UnitCurrency:
		return printer.Sprintf("$%d", int64(math.Round(v)))
	case catalog.UnitPercent:
		return fmt.Sprintf("%.1f%%", v)
	case catalog.UnitCount:
		return printer.Sprintf("%d", int64(math.Round(v)))
	case catalog.UnitDays:
		return fmt.Sprintf("%d days", int64(math.Round(v)))
	case catalog.UnitScore:
		return fmt.Sprintf("%.0f", v)
	case catalog.UnitRatio:
		return fmt.Sprintf("%.1f", v)
	case catalog.UnitTemperature:
		return fmt.Sprintf("%.0f°F", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// formatRaw renders a value for CSV output, where labels and separators
// would get in the way of reimporting the data.
func formatRaw(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
