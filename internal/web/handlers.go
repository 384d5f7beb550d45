package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablesort/internal/core"
	"github.com/JonMunkholm/tablesort/internal/loader"
	"github.com/JonMunkholm/tablesort/internal/logging"
	"github.com/JonMunkholm/tablesort/internal/web/templates"
)

// handleHealth reports liveness and the number of loaded datasets.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.Count(),
		"uploads":  s.limiter.Active(),
	})
}

// handleIndex renders the upload form and the loaded datasets.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.IndexPage(s.indexParams(nil)))
}

func (s *Server) indexParams(err error) templates.IndexParams {
	p := templates.IndexParams{
		Sessions:   s.service.List(),
		Extensions: loader.Extensions(),
		MaxSize:    s.loader.MaxFileSize,
	}
	if err != nil {
		msg := core.MapError(err)
		p.Alert = templates.ErrorAlert(msg.Message, msg.Action, msg.Code)
	}
	return p
}

// handleUploadPage loads a file from the upload form and redirects to its
// table. Failures re-render the form with an alert.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.upload(w, r)
	if err != nil {
		if isHTMX(r) {
			s.fail(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Warn("upload rejected", "error", err)
		render(w, r, statusFor(err), templates.IndexPage(s.indexParams(err)))
		return
	}

	target := "/datasets/" + sess.ID
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleDatasetPage renders a dataset in its current sort order.
func (s *Server) handleDatasetPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if isHTMX(r) {
		render(w, r, http.StatusOK, templates.TablePartial(view))
		return
	}
	render(w, r, http.StatusOK, templates.DatasetPage(view))
}

// handleActivatePage advances a column's sort direction. HTMX requests get
// the table fragment; plain links are redirected back to the page.
func (s *Server) handleActivatePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ActivateRequest
	if err := decodeQuery(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.service.Activate(r.Context(), id, req.Column)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/datasets/"+id, http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, templates.TablePartial(view))
}
