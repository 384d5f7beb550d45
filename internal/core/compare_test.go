package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"absent equals absent", Absent(), Absent(), 0},
		{"absent after number", Absent(), Number(1), 1},
		{"number before absent", Number(1), Absent(), -1},
		{"absent after text", Absent(), Text("a"), 1},
		{"numbers arithmetically", Number(2), Number(10), -1},
		{"negative numbers", Number(-5), Number(-1), -1},
		{"equal numbers", Number(3), Number(3), 0},
		{"text ignores case", Text("apple"), Text("Banana"), -1},
		{"text equal ignoring case", Text("North"), Text("north"), 0},
		{"digit runs by value", Text("v2"), Text("v10"), -1},
		{"digit runs in the middle", Text("item 10 b"), Text("item 9 b"), 1},
		{"number against text uses rendering", Number(10), Text("9a"), 1},
		{"number against letters", Number(2), Text("abc"), -1},
		{"fraction rendering", Number(1.5), Text("1.5"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sign(Compare(tt.a, tt.b)))
			assert.Equal(t, -tt.want, sign(Compare(tt.b, tt.a)), "comparison must be antisymmetric")
		})
	}
}

func TestCompareText_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if CompareText("file2", "FILE10") >= 0 {
					t.Error("file2 should sort before FILE10")
					return
				}
			}
		}()
	}
	wg.Wait()
}
