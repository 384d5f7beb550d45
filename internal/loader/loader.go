// Package loader turns uploaded files into raw tables for the core package.
//
// Delimited text (.csv, .tsv, .txt) is decoded as UTF-8 with an optional
// byte order mark, invalid sequences replaced by U+FFFD, and split with
// encoding/csv using a delimiter sniffed from the header line. Workbooks
// (.xlsx) are read from their first sheet. Both paths share the same row
// shaping: the first record is the header, later blank records are
// skipped, short records leave cells absent, and extra cells are dropped.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/tablesort/internal/core"
)

var (
	// ErrUnsupportedType is returned for file extensions the loader cannot read.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned when the input exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned when the input holds no records.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoHeader is returned when the header record has no non-blank name.
	ErrNoHeader = errors.New("no header row")

	// ErrMalformed wraps parse failures of the underlying format.
	ErrMalformed = errors.New("malformed file")
)

// DefaultMaxFileSize is used when Loader.MaxFileSize is zero.
const DefaultMaxFileSize int64 = 25 << 20

// ContextCheckInterval is how many records are read between context checks.
var ContextCheckInterval = 100

// Format identifies how a file is decoded.
type Format int

const (
	FormatDelimited Format = iota
	FormatWorkbook
)

// formats maps accepted extensions to their decoder.
var formats = map[string]Format{
	".csv":  FormatDelimited,
	".tsv":  FormatDelimited,
	".txt":  FormatDelimited,
	".xlsx": FormatWorkbook,
}

// Extensions returns the accepted file extensions, for upload forms.
func Extensions() []string {
	return []string{".csv", ".tsv", ".txt", ".xlsx"}
}

// DetectFormat returns the format for a file name, or ErrUnsupportedType.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	f, ok := formats[ext]
	if !ok {
		if ext == "" {
			return 0, fmt.Errorf("%w: %q has no extension", ErrUnsupportedType, name)
		}
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return f, nil
}

// Loader reads uploaded files into core.RawTable values.
type Loader struct {
	// MaxFileSize is the largest input accepted, in bytes.
	MaxFileSize int64

	// MaxRows stops reading once more data rows than this are seen.
	// Zero means unlimited.
	MaxRows int
}

// New creates a Loader with the given limits.
func New(maxFileSize int64, maxRows int) *Loader {
	return &Loader{MaxFileSize: maxFileSize, MaxRows: maxRows}
}

func (l *Loader) maxSize() int64 {
	if l.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return l.MaxFileSize
}

// Load reads r as the file called name. size is the declared length of the
// input, or a negative value when unknown; the limit is enforced while
// reading either way.
func (l *Loader) Load(ctx context.Context, name string, r io.Reader, size int64) (core.RawTable, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return core.RawTable{}, err
	}

	limit := l.maxSize()
	if size > limit {
		return core.RawTable{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, limit)
	}
	if size == 0 {
		return core.RawTable{}, ErrEmptyFile
	}

	limited := newLimitReader(r, limit)

	switch format {
	case FormatWorkbook:
		return l.readWorkbook(ctx, limited)
	default:
		var comma rune
		if strings.EqualFold(filepath.Ext(name), ".tsv") {
			comma = '\t'
		}
		return l.readDelimited(ctx, limited, comma)
	}
}

// limitReader counts bytes and fails with ErrFileTooLarge once more than
// max have been read.
type limitReader struct {
	reader    io.Reader
	max       int64
	bytesRead int64
}

func newLimitReader(r io.Reader, limit int64) *limitReader {
	return &limitReader{reader: r, max: limit}
}

func (r *limitReader) Read(p []byte) (int, error) {
	if r.bytesRead > r.max {
		return 0, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, r.max)
	}
	// Read at most one byte past the limit so overflow is detectable.
	if remaining := r.max - r.bytesRead + 1; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	if r.bytesRead > r.max {
		return 0, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, r.max)
	}
	return n, err
}

// tableBuilder shapes records into a RawTable.
type tableBuilder struct {
	maxRows int
	columns []string
	rows    []map[string]string
	seen    int
}

// add consumes one record. The first record is the header and must name at
// least one column.
func (b *tableBuilder) add(ctx context.Context, record []string) error {
	b.seen++
	if b.seen%ContextCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if b.columns == nil {
		if isEmptyRow(record) {
			return ErrNoHeader
		}
		b.columns = headerNames(record)
		return nil
	}

	if isEmptyRow(record) {
		return nil
	}

	if b.maxRows > 0 && len(b.rows) >= b.maxRows {
		return fmt.Errorf("%w: limit is %d rows", core.ErrTooManyRows, b.maxRows)
	}

	row := make(map[string]string, len(b.columns))
	for i, col := range b.columns {
		if i >= len(record) {
			break
		}
		row[col] = record[i]
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *tableBuilder) table() (core.RawTable, error) {
	if b.columns == nil {
		return core.RawTable{}, ErrEmptyFile
	}
	return core.RawTable{Columns: b.columns, Rows: b.rows}, nil
}

// headerNames copies the header record, naming blank cells "Column N"
// after their 1-based position. When a real header already uses that name
// the synthesized one gains a " (2)", " (3)" suffix until it is free.
func headerNames(record []string) []string {
	taken := make(map[string]bool, len(record))
	for _, name := range record {
		if n := strings.TrimSpace(name); n != "" {
			taken[n] = true
		}
	}

	cols := make([]string, len(record))
	for i, name := range record {
		if strings.TrimSpace(name) == "" {
			base := fmt.Sprintf("Column %d", i+1)
			name = base
			for k := 2; taken[name]; k++ {
				name = fmt.Sprintf("%s (%d)", base, k)
			}
			taken[name] = true
		}
		cols[i] = name
	}
	return cols
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
