package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 5, Y: 5, W: 10, H: 10},
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 15, Y: 0, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 0, Y: 15, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 10, Y: 0, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 0, Y: 10, W: 10, H: 10},
			expected: false,
		},
		{
			name:     "contained rect",
			a:        Rect{X: 0, Y: 0, W: 20, H: 20},
			b:        Rect{X: 5, Y: 5, W: 5, H: 5},
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        Rect{X: 0, Y: 0, W: 10, H: 10},
			b:        Rect{X: 9.5, Y: 9.5, W: 10, H: 10},
			expected: true,
		},
		{
			name:     "negative coordinates",
			a:        Rect{X: -5, Y: -5, W: 10, H: 10},
			b:        Rect{X: -1, Y: 0, W: 2, H: 2},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := RectAt(NewVec2(5, 10), NewVec2(20, 15))

	if r.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %v, expected 25", r.Bottom())
	}
}

func TestVec2Arithmetic(t *testing.T) {
	a := NewVec2(1, 2)
	b := NewVec2(3, -4)

	if got := a.Add(b); got != NewVec2(4, -2) {
		t.Errorf("Add() = %+v", got)
	}
	if got := b.Scale(0.5); got != NewVec2(1.5, -2) {
		t.Errorf("Scale() = %+v", got)
	}
}

func TestSignum(t *testing.T) {
	tests := []struct {
		in, expected float32
	}{
		{5, 1},
		{-0.05, -1},
		{0, 0},
	}

	for _, tc := range tests {
		if got := Signum(tc.in); got != tc.expected {
			t.Errorf("Signum(%v) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5.5) != 5.5 {
		t.Error("Abs(-5.5) should be 5.5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}
