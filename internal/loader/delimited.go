package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/tablesort/internal/core"
)

// sniffSize is how much of the input is buffered for delimiter detection.
const sniffSize = 64 * 1024

// delimiters are the candidates considered by SniffDelimiter, in order of
// preference when counts tie.
var delimiters = []rune{',', ';', '\t', '|'}

// readDelimited parses delimited text. A zero comma means the delimiter is
// sniffed from the header line.
func (l *Loader) readDelimited(ctx context.Context, r io.Reader, comma rune) (core.RawTable, error) {
	// UTF8BOM strips a leading byte order mark and replaces invalid
	// sequences with U+FFFD.
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	br := bufio.NewReaderSize(decoded, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return core.RawTable{}, readError(err)
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return core.RawTable{}, ErrEmptyFile
	}
	if comma == 0 {
		comma = SniffDelimiter(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	b := &tableBuilder{maxRows: l.MaxRows}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.RawTable{}, readError(err)
		}
		if err := b.add(ctx, record); err != nil {
			return core.RawTable{}, err
		}
	}
	return b.table()
}

// SniffDelimiter picks the delimiter of the first line in head: the
// candidate that occurs most often outside double quotes. Comma is the
// fallback when no candidate occurs.
func SniffDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, r := range string(line) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// readError classifies an error from the read path. Size and context
// errors pass through; anything else is a malformed file.
func readError(err error) error {
	switch {
	case errors.Is(err, ErrFileTooLarge),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}

	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: line %d: %v", ErrMalformed, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
