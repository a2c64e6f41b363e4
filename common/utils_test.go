package common

import "testing"

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
		want   float32
	}{
		{"first non-zero wins", []float32{0, 2, 3}, 2},
		{"leading value kept", []float32{5, 0}, 5},
		{"all zero", []float32{0, 0}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coalesce(tt.values...); got != tt.want {
				t.Errorf("Coalesce(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}

	type vec3 [3]float32
	if got := Coalesce(vec3{}, vec3{0, 1, 0}); got != (vec3{0, 1, 0}) {
		t.Errorf("Coalesce on arrays = %v, want [0 1 0]", got)
	}
}
