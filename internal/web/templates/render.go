// Package templates holds the HTML components for the table UI.
//
// Components are written in templ; the *_templ.go files are generated by
// `templ generate` and checked in. Handlers render them the same way for full
// pages and HTMX partials:
//
//	templates.TablePartial(view).Render(r.Context(), w)
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

import "net/url"

// datasetPath builds /datasets/{id}[/suffix] with the id path-escaped.
func datasetPath(id, suffix string) string {
	p := "/datasets/" + url.PathEscape(id)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// activatePath is the header link for a column.
func activatePath(id, column string) string {
	q := url.Values{"column": {column}}
	return datasetPath(id, "activate") + "?" + q.Encode()
}

// exportPath is the download link for one export format.
func exportPath(id, format string) string {
	q := url.Values{"format": {format}}
	return datasetPath(id, "export") + "?" + q.Encode()
}
