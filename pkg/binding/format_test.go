package binding

import (
	"math"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, "-"},
		{"string", "hi", "hi"},
		{"empty string", "", ""},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"whole float", 3.0, "3"},
		{"fraction", 0.5, "0.5"},
		{"large float", 1e21, "1e+21"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(-1), "-Infinity"},
		{"stringer", 2 * time.Second, "2s"},
		{"slice", []any{1.0, "a"}, `[1,"a"]`},
		{"map", map[string]any{"b": 1.0, "a": true}, `{"a":true,"b":1}`},
		{"other", uint8(9), "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v, "-"); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
