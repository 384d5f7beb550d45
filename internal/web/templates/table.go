package templates

import (
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tablesort/internal/core"
)

var exportFormats = []string{"csv", "xlsx"}

// rowPosition is the ingestion position of the i-th displayed row.
func rowPosition(view core.View, i int) int {
	if i < len(view.Positions) {
		return view.Positions[i]
	}
	return i
}

func headerClass(view core.View, col string) string {
	if col == view.ActiveColumn && view.State[col] != core.DirNone {
		return "sortable active"
	}
	return "sortable"
}

// Indicator is the header glyph for a direction.
func Indicator(dir core.Direction) string {
	switch dir {
	case core.DirAsc:
		return "▲"
	case core.DirDesc:
		return "▼"
	default:
		return ""
	}
}

func ariaSort(dir core.Direction) string {
	switch dir {
	case core.DirAsc:
		return "ascending"
	case core.DirDesc:
		return "descending"
	default:
		return "none"
	}
}

// Summary is the footer text for one column.
func Summary(a *core.ColumnAggregation) string {
	if a == nil {
		return ""
	}

	var parts []string
	if a.Sum != nil {
		parts = append(parts, "Σ "+formatStat(*a.Sum))
	}
	if a.Mean != nil {
		parts = append(parts, "avg "+formatStat(*a.Mean))
	}
	if a.Numbers == 0 && a.Texts > 0 {
		parts = append(parts, strconv.Itoa(a.Texts)+" values")
	}
	if a.Absent > 0 {
		parts = append(parts, strconv.Itoa(a.Absent)+" blank")
	}
	return strings.Join(parts, " · ")
}

// formatStat rounds to two decimals for display.
func formatStat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
