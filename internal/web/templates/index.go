package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tablesort/internal/core"
)

// IndexParams feeds the upload page.
type IndexParams struct {
	Sessions   []core.SessionInfo
	Extensions []string
	MaxSize    int64
	// Alert is rendered above the form when set.
	Alert templ.Component
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit:
		return strconv.FormatFloat(float64(n)/(unit*unit), 'f', -1, 64) + " MB"
	case n >= unit:
		return strconv.FormatFloat(float64(n)/unit, 'f', -1, 64) + " KB"
	default:
		return strconv.FormatInt(n, 10) + " B"
	}
}
