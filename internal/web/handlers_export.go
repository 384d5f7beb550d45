package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablesort/internal/core"
	"github.com/JonMunkholm/tablesort/internal/loader"
	"github.com/JonMunkholm/tablesort/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport downloads a dataset in its current sort order as CSV or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeQuery(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.service.View(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	base := exportName(view.Name)
	timestamp := time.Now().Format("20060102_150405")

	switch strings.ToLower(req.Format) {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.csv"`, base, timestamp))
		if err := writeCSV(w, view); err != nil {
			logging.FromContext(r.Context()).Error("csv export failed", "error", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.xlsx"`, base, timestamp))
		if err := loader.WriteWorkbook(w, sheetName(base), view.Columns, view.Rows); err != nil {
			logging.FromContext(r.Context()).Error("xlsx export failed", "error", err)
		}
	default:
		s.fail(w, r, fmt.Errorf("%w: unknown export format %q", errBadRequest, req.Format))
	}
}

// writeCSV writes the header row and the rows as display text.
func writeCSV(w http.ResponseWriter, view core.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(view.Columns); err != nil {
		return err
	}
	record := make([]string, len(view.Columns))
	for _, row := range view.Rows {
		for i, col := range view.Columns {
			record[i] = row.Get(col).String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportName derives a download file name from the uploaded name.
func exportName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == '"', r == '\\', r == '/', r < 0x20:
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		return "export"
	}
	return base
}

// sheetName fits name to worksheet naming rules: at most 31 characters,
// none of :\/?*[] and no surrounding apostrophes.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet1"
	}
	return name
}
