package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tablesort/internal/config"
	"github.com/JonMunkholm/tablesort/internal/core"
)

const scores = "name,score\nb,10\na,2\nc,\n"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: 5 * time.Second},
		Upload:   config.UploadConfig{MaxFileSize: 1 << 20, MaxRows: 100, MaxConcurrent: 2, MaxWait: time.Second},
		Session:  config.SessionConfig{TTL: time.Hour, MaxSessions: 10, JanitorInterval: time.Minute},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	return NewServer(cfg, core.NewService(core.Options{
		SessionTTL:  cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
		MaxRows:     cfg.Upload.MaxRows,
	}))
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// viewResponse mirrors core.View with cells decoded as plain JSON values.
type viewResponse struct {
	ID           string            `json:"id"`
	Columns      []string          `json:"columns"`
	Rows         []map[string]any  `json:"rows"`
	Positions    []int             `json:"positions"`
	State        map[string]string `json:"state"`
	ActiveColumn string            `json:"activeColumn"`
	Direction    string            `json:"direction"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func uploadScores(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(s, uploadRequest(t, "/api/datasets", "scores.csv", scores))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[UploadResponse](t, rec)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://unpkg.com")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tablesort_http_requests_total")
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `action="/datasets"`)
}

func TestAPI_UploadAndView(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[viewResponse](t, rec)

	assert.Equal(t, []string{"name", "score"}, view.Columns)
	assert.Equal(t, []int{0, 1, 2}, view.Positions)
	assert.Equal(t, float64(10), view.Rows[0]["score"])
	assert.Nil(t, view.Rows[2]["score"])
	assert.Equal(t, "none", view.Direction)

	list := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	infos := decode[[]core.SessionInfo](t, list)
	require.Len(t, infos, 1)
	assert.Equal(t, "scores.csv", infos[0].Name)
	assert.Equal(t, 3, infos[0].RowCount)
}

func TestAPI_ActivateCycle(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	activate := func(column string) viewResponse {
		rec := do(s, httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/activate?column="+column, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[viewResponse](t, rec)
	}

	v := activate("score")
	assert.Equal(t, "asc", v.Direction)
	assert.Equal(t, []int{1, 0, 2}, v.Positions)

	v = activate("score")
	assert.Equal(t, "desc", v.Direction)
	assert.Equal(t, []int{2, 0, 1}, v.Positions)

	v = activate("name")
	assert.Equal(t, "asc", v.Direction)
	assert.Equal(t, "none", v.State["score"], "activating another column resets the rest")

	activate("name")
	v = activate("name")
	assert.Equal(t, "none", v.Direction)
	assert.Equal(t, []int{0, 1, 2}, v.Positions)
}

func TestAPI_ActivateFormBody(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/activate", strings.NewReader("column=name"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(s, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "name", decode[viewResponse](t, rec).ActiveColumn)
}

func TestAPI_Sorted(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/sorted?column=name&dir=desc", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[viewResponse](t, rec)
	assert.Equal(t, []int{2, 0, 1}, v.Positions)
	assert.Equal(t, "desc", v.State["name"])

	after := decode[viewResponse](t, do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil)))
	assert.Equal(t, "none", after.Direction, "sorted leaves the session state alone")
}

func TestAPI_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantErr  string
	}{
		{"unknown column", http.MethodPost, "/api/datasets/" + id + "/activate?column=age", http.StatusBadRequest, "SORT001"},
		{"missing column", http.MethodPost, "/api/datasets/" + id + "/activate", http.StatusBadRequest, "REQ003"},
		{"bad direction", http.MethodGet, "/api/datasets/" + id + "/sorted?column=name&dir=up", http.StatusBadRequest, "SORT002"},
		{"unknown session", http.MethodGet, "/api/datasets/nope", http.StatusNotFound, "SES001"},
		{"unknown export format", http.MethodGet, "/api/datasets/" + id + "/export?format=pdf", http.StatusBadRequest, "REQ003"},
		{"unknown route", http.MethodGet, "/api/nothing", http.StatusNotFound, "REQ004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestAPI_UploadErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name     string
		filename string
		content  string
		wantCode int
		wantErr  string
	}{
		{"unsupported type", "data.json", "{}", http.StatusUnsupportedMediaType, "FILE006"},
		{"no file", "", "", http.StatusBadRequest, "FILE004"},
		{"empty file", "empty.csv", "", http.StatusBadRequest, "FILE005"},
		{"too many rows", "rows.csv", "a\n" + strings.Repeat("1\n", 101), http.StatusRequestEntityTooLarge, "FILE008"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, uploadRequest(t, "/api/datasets", tt.filename, tt.content))
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rec).Code)
		})
	}
	assert.Equal(t, 0, s.service.Count())
}

func TestAPI_Drop(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)

	rec := do(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RequiresKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, cfg)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, do(s, req).Code)

	page := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, page.Code, "pages are not behind the key")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}
	s := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestPages_UploadAndActivate(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(s, uploadRequest(t, "/datasets", "scores.csv", scores))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/datasets/"))

	page := do(s, httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<div id="table">`)
	assert.Contains(t, page.Body.String(), "<html")

	req := httptest.NewRequest(http.MethodGet, location+"/activate?column=score", nil)
	req.Header.Set("HX-Request", "true")
	partial := do(s, req)
	require.Equal(t, http.StatusOK, partial.Code)
	body := partial.Body.String()
	assert.True(t, strings.HasPrefix(body, `<div id="table">`), "HTMX gets only the table")
	assert.Contains(t, body, `aria-sort="ascending"`)
	assert.Less(t, strings.Index(body, `data-row="1"`), strings.Index(body, `data-row="0"`))

	plain := do(s, httptest.NewRequest(http.MethodGet, location+"/activate?column=score", nil))
	assert.Equal(t, http.StatusSeeOther, plain.Code)
	assert.Equal(t, location, plain.Header().Get("Location"))
}

func TestPages_UploadErrorShowsForm(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(s, uploadRequest(t, "/datasets", "notes.pdf", "x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "FILE006")
	assert.Contains(t, rec.Body.String(), `action="/datasets"`)
}

func TestPages_HTMXErrorIsAlert(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/datasets/missing/activate?column=a", nil)
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<div class="alert"`))
	assert.Contains(t, rec.Body.String(), "SES001")
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)
	id := uploadScores(t, s)
	do(s, httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/activate?column=score", nil))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="scores_`)
	assert.Equal(t, "name,score\na,2\nb,10\nc,\n", rec.Body.String())

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/export?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("scores")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"a", "2"}, rows[1])
	assert.Equal(t, []string{"c"}, rows[3])
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "scores", exportName("scores.csv"))
	assert.Equal(t, "a_b", exportName(`a"b.tsv`))
	assert.Equal(t, "export", exportName(".csv"))
	assert.Equal(t, "Sheet1", sheetName("''"))
	assert.Equal(t, "q1_2024_", sheetName("q1/2024?"))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}
