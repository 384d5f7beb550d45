package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablesort/internal/core"
)

// UploadResponse is returned after a dataset is loaded through the API.
type UploadResponse struct {
	core.SessionInfo
	URL string `json:"url"`
}

// handleAPIList returns the loaded datasets, most recent first.
func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.List())
}

// handleAPIUpload loads a multipart file upload.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.upload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/datasets/"+sess.ID)
	writeJSON(w, http.StatusCreated, UploadResponse{
		SessionInfo: sess.Info(),
		URL:         "/datasets/" + sess.ID,
	})
}

// handleAPIView returns a dataset in its current sort order.
func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.View(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAPIDrop unloads a dataset.
func (s *Server) handleAPIDrop(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Drop(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIActivate advances a column's sort direction. The column comes
// from the query string or a form body.
func (s *Server) handleAPIActivate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := decodeForm(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.service.Activate(r.Context(), chi.URLParam(r, "id"), req.Column)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAPISorted orders a dataset by an explicit column and direction
// without changing its sort state.
func (s *Server) handleAPISorted(w http.ResponseWriter, r *http.Request) {
	var req SortedRequest
	if err := decodeQuery(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	dir, err := req.Direction()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.service.Sorted(chi.URLParam(r, "id"), req.Column, dir)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
