package core

import (
	"fmt"
	"strconv"
	"testing"
)

// ============================================================================
// Resolver Benchmarks
// ============================================================================

// BenchmarkResolve benchmarks cell resolution.
// This runs once per cell when a dataset is loaded.
func BenchmarkResolve(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"  999.99  ",
		"1e5",
		"$1,234.56",
		"Smith, John",
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			Resolve(tc)
		}
	}
}

// BenchmarkResolve_Number benchmarks the most common case: plain integers.
func BenchmarkResolve_Number(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Resolve("12345")
	}
}

// ============================================================================
// Comparison Benchmarks
// ============================================================================

// BenchmarkCompare benchmarks each pairing of value kinds.
func BenchmarkCompare(b *testing.B) {
	pairs := []struct {
		name string
		a, b Value
	}{
		{"numbers", Number(3), Number(10)},
		{"text", Text("apple"), Text("Banana")},
		{"digit runs", Text("item 2"), Text("item 10")},
		{"mixed", Number(5), Text("five")},
		{"absent", Absent(), Number(1)},
	}

	for _, p := range pairs {
		b.Run(p.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Compare(p.a, p.b)
			}
		})
	}
}

// ============================================================================
// Sort Benchmarks
// ============================================================================

// BenchmarkOrder benchmarks ordering by numeric and text columns.
func BenchmarkOrder(b *testing.B) {
	for _, n := range []int{100, 10_000} {
		rows := generateRows(n)
		for _, col := range []string{"amount", "name"} {
			b.Run(fmt.Sprintf("%s_%d", col, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					Order(rows, col, DirAsc)
				}
			})
		}
	}
}

// BenchmarkActivate benchmarks a full header activation through the service.
func BenchmarkActivate(b *testing.B) {
	svc := NewService(Options{})
	raw := RawTable{Columns: []string{"id", "name", "amount"}}
	for i := 0; i < 10_000; i++ {
		raw.Rows = append(raw.Rows, map[string]string{
			"id":     strconv.Itoa(i),
			"name":   fmt.Sprintf("customer %d", (i*7919)%10_000),
			"amount": strconv.Itoa((i * 31) % 977),
		})
	}
	sess, err := svc.Load(b.Context(), "bench.csv", raw)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Activate(b.Context(), sess.ID, "amount"); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkCompareTextParallel benchmarks pooled collators under contention.
func BenchmarkCompareTextParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			CompareText("Invoice 12", "invoice 9")
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateRows builds rows with a numeric, a text, and a sparse column.
func generateRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		row := Row{
			"amount": Number(float64((i * 31) % 977)),
			"name":   Text(fmt.Sprintf("customer %d", (i*7919)%n)),
		}
		if i%5 == 0 {
			row["note"] = Text("follow up")
		}
		rows[i] = row
	}
	return rows
}
