package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/tablesort/internal/core"
	"github.com/JonMunkholm/tablesort/internal/loader"
	"github.com/JonMunkholm/tablesort/internal/logging"
)

// multipartMemory is how much of a multipart form is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// upload reads the "file" form field, parses it under an upload slot, and
// registers the result as a new session.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) (*core.Session, error) {
	maxSize := s.loader.MaxFileSize
	if maxSize <= 0 {
		maxSize = loader.DefaultMaxFileSize
	}
	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", loader.ErrFileTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	defer file.Close()

	if err := s.limiter.Acquire(r.Context()); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx := WithRequestMetadata(r.Context(), r)
	ctx = logging.NewContext(ctx, slog.Default().With("file", header.Filename, "size", header.Size))
	raw, err := s.loader.Load(ctx, header.Filename, file, header.Size)
	if err != nil {
		return nil, err
	}
	return s.service.Load(ctx, header.Filename, raw)
}
