package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		wantNum  float64
		wantText string
	}{
		{"  42 ", KindNumber, 42, ""},
		{"1e3", KindNumber, 1000, ""},
		{"-3.25", KindNumber, -3.25, ""},
		{"+7", KindNumber, 7, ""},
		{".5", KindNumber, 0.5, ""},
		{"5.", KindNumber, 5, ""},
		{"2E-2", KindNumber, 0.02, ""},
		{"0", KindNumber, 0, ""},
		{"", KindAbsent, 0, ""},
		{"  ", KindAbsent, 0, ""},
		{"\t\n", KindAbsent, 0, ""},
		{"north", KindText, 0, "north"},
		{"  padded text ", KindText, 0, "padded text"},
		{"1,000", KindText, 0, "1,000"},
		{"12abc", KindText, 0, "12abc"},
		{"0x1F", KindText, 0, "0x1F"},
		{"1_000", KindText, 0, "1_000"},
		{"NaN", KindText, 0, "NaN"},
		{"Inf", KindText, 0, "Inf"},
		{"-Infinity", KindText, 0, "-Infinity"},
		{"1e400", KindText, 0, "1e400"},
		{"1e", KindText, 0, "1e"},
		{"+", KindText, 0, "+"},
		{".", KindText, 0, "."},
		{"v10", KindText, 0, "v10"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := Resolve(tt.raw)
			require.Equal(t, tt.wantKind, v.Kind())
			switch tt.wantKind {
			case KindNumber:
				assert.Equal(t, tt.wantNum, v.Float())
			case KindText:
				assert.Equal(t, tt.wantText, v.Str())
			}
		})
	}
}

func TestResolve_NeverEmptyText(t *testing.T) {
	for _, raw := range []string{"", " ", " ", "\r\n"} {
		v := Resolve(raw)
		if v.IsText() {
			assert.NotEmpty(t, v.Str())
		}
	}
}

func TestConstructors(t *testing.T) {
	assert.True(t, Text("").IsAbsent(), "empty text collapses to absence")
	assert.True(t, Number(math.NaN()).IsAbsent())
	assert.True(t, Number(math.Inf(1)).IsAbsent())
	assert.True(t, Number(0).IsNumber())
	assert.True(t, Absent().IsAbsent())
	assert.Equal(t, Absent(), Value{})
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(42), "42"},
		{Number(0.1), "0.1"},
		{Number(-2.5), "-2.5"},
		{Number(1e20), "100000000000000000000"},
		{Number(1e21), "1e+21"},
		{Number(math.Copysign(0, -1)), "0"},
		{Resolve("-0"), "0"},
		{Resolve("-0.0e5"), "0"},
		{Text("abc"), "abc"},
		{Absent(), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestNumber_NegativeZero(t *testing.T) {
	v := Resolve("-0")
	require.True(t, v.IsNumber())
	assert.False(t, math.Signbit(v.Float()))
	assert.Equal(t, 0, Compare(v, Number(0)))

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestValue_MarshalJSON(t *testing.T) {
	row := Row{"n": Number(1.5), "t": Text("x"), "a": Absent()}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1.5,"t":"x","a":null}`, string(data))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "absent", KindAbsent.String())
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "text", KindText.String())
}
