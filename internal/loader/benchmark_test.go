package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
)

// ============================================================================
// Parsing Benchmarks
// ============================================================================

// BenchmarkLoad_CSV benchmarks parsing a 1,000 row file.
func BenchmarkLoad_CSV(b *testing.B) {
	data := generateTestCSV(1000)
	l := New(0, 0)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(context.Background(), "bench.csv", bytes.NewReader(data), int64(len(data))); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoad_CSV_Large benchmarks parsing a 50,000 row file.
func BenchmarkLoad_CSV_Large(b *testing.B) {
	data := generateTestCSV(50_000)
	l := New(int64(len(data)), 0)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := l.Load(context.Background(), "bench.csv", bytes.NewReader(data), int64(len(data))); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSniffDelimiter benchmarks delimiter detection on a header line.
func BenchmarkSniffDelimiter(b *testing.B) {
	head := generateTestCSV(10)
	for i := 0; i < b.N; i++ {
		SniffDelimiter(head)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates CSV data with the specified number of rows.
func generateTestCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"ID", "Name", "Email", "Date", "Amount", "Status"})
	for i := 0; i < rows; i++ {
		w.Write([]string{
			"1001",
			"John Doe",
			"john@example.com",
			"2024-01-15",
			"1234.56",
			"active",
		})
	}
	w.Flush()

	return buf.Bytes()
}
