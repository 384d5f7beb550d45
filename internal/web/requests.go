package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/JonMunkholm/tablesort/internal/core"
)

var (
	errBadRequest = errors.New("invalid request")
	errNoFile     = errors.New("no file provided")
	errNotFound   = errors.New("page not found")
)

// decoder is safe for concurrent use; it caches struct metadata.
var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ActivateRequest names the header that was activated.
type ActivateRequest struct {
	Column string `schema:"column,required"`
}

// SortedRequest asks for a stateless ordering.
type SortedRequest struct {
	Column string `schema:"column,required"`
	Dir    string `schema:"dir,default:asc"`
}

// Direction parses Dir.
func (q SortedRequest) Direction() (core.Direction, error) {
	return core.ParseDirection(q.Dir)
}

// ExportRequest selects the download format.
type ExportRequest struct {
	Format string `schema:"format,default:csv"`
}

// decodeQuery fills dst from the URL query.
func decodeQuery(r *http.Request, dst any) error {
	if err := decoder.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeForm fills dst from the parsed form, which includes the query.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := decoder.Decode(dst, r.Form); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
