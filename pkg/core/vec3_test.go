package core

import (
	"image/color"
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const tolerance = 1e-12
			if tt.result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(3, 4, 12)

	if got := v.Dot(NewVec3(1, 1, 1)); got != 19 {
		t.Errorf("Expected dot 19, got %f", got)
	}
	if got := v.LengthSquared(); got != 169 {
		t.Errorf("Expected length squared 169, got %f", got)
	}
	if got := v.Length(); got != 13 {
		t.Errorf("Expected length 13, got %f", got)
	}
}

func TestVec3_CrossIsOrthogonal(t *testing.T) {
	a := NewVec3(0.3, -1.2, 2.5)
	b := NewVec3(-4, 0.5, 1)
	c := a.Cross(b)

	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Errorf("Cross product %v is not orthogonal to inputs", c)
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", n.Length())
	}
	if math.Abs(n.Y-0.6) > 1e-12 || math.Abs(n.Z-0.8) > 1e-12 {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", n)
	}

	// Zero vector stays zero instead of turning into NaNs
	zero := NewVec3(0, 0, 0).Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_IsNearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component large", NewVec3(1e-9, 1e-7, 0), false},
		{"unit", NewVec3(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsNearZero(); got != tt.expected {
				t.Errorf("IsNearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	c := NewVec3(-0.5, 0.25, 2).Clamp(0, 1)
	if c != NewVec3(0, 0.25, 1) {
		t.Errorf("Expected clamped (0, 0.25, 1), got %v", c)
	}

	g := NewVec3(0.25, 1, 0).GammaCorrect(2)
	if g != NewVec3(0.5, 1, 0) {
		t.Errorf("Expected gamma corrected (0.5, 1, 0), got %v", g)
	}
}

func TestColorFromRGBA(t *testing.T) {
	c := ColorFromRGBA(color.RGBA{R: 255, G: 0, B: 51, A: 255})
	expected := NewColor(1, 0, 0.2)
	if c.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, c)
	}
}
