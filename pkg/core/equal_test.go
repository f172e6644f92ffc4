package core

import (
	"math"
	"testing"
)

type point struct {
	X, Y float64
}

type holder struct {
	V any
}

func TestChanged(t *testing.T) {
	shared := []int{1, 2, 3}
	m := map[string]int{"a": 1}
	p := &point{1, 2}

	tests := []struct {
		name       string
		prev, next any
		want       bool
	}{
		{"nil to nil", nil, nil, false},
		{"nil to value", nil, 1, true},
		{"value to nil", "x", nil, true},
		{"same int", 5, 5, false},
		{"different int", 5, 6, true},
		{"same string", "a", "a", false},
		{"int vs int64", 5, int64(5), true},
		{"NaN to NaN", math.NaN(), math.NaN(), false},
		{"NaN32 to NaN32", float32(math.NaN()), float32(math.NaN()), false},
		{"NaN to number", math.NaN(), 1.0, true},
		{"number to NaN", 1.0, math.NaN(), true},
		{"struct with NaN", point{math.NaN(), 0}, point{math.NaN(), 0}, false},
		{"equal structs", point{1, 2}, point{1, 2}, false},
		{"same pointer", p, p, false},
		{"different pointers", p, &point{1, 2}, true},
		{"same slice", shared, shared, false},
		{"resliced", shared, shared[:2], true},
		{"equal slices different arrays", []int{1}, []int{1}, true},
		{"same map", m, m, false},
		{"different maps", m, map[string]int{"a": 1}, true},
		{"func", func() {}, func() {}, true},
		{"incomparable interface field", holder{[]int{1}}, holder{[]int{1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(tt.prev, tt.next); got != tt.want {
				t.Errorf("Changed(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}
