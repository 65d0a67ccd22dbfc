package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestVectorAlgebra(t *testing.T) {
	v := V(1, 2, 3)
	w := V(4, -5, 6)

	if got := v.Add(w); got != V(5, -3, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := v.Sub(w); got != V(-3, 7, -3) {
		t.Errorf("Sub = %v", got)
	}
	if got := v.Mul(w); got != V(4, -10, 18) {
		t.Errorf("Mul = %v", got)
	}
	if got := v.Scale(2); got != V(2, 4, 6) {
		t.Errorf("Scale = %v", got)
	}
	if got := v.Neg().Abs(); got != V(1, 2, 3) {
		t.Errorf("Neg.Abs = %v", got)
	}
	if got := v.Dot(w); !almostEqual(got, 4-10+18) {
		t.Errorf("Dot = %v", got)
	}
}

func TestCrossIsOrthogonal(t *testing.T) {
	v := V(1, 2, 3)
	w := V(-2, 1, 0.5)
	c := v.Cross(w)
	if !almostEqual(c.Dot(v), 0) || !almostEqual(c.Dot(w), 0) {
		t.Errorf("cross product %v not orthogonal to operands", c)
	}
}

func TestLengthAndDistance(t *testing.T) {
	v := V(3, 4, 0)
	if !almostEqual(v.Length(), 5) {
		t.Errorf("Length = %v, want 5", v.Length())
	}
	if !almostEqual(v.LengthSquared(), 25) {
		t.Errorf("LengthSquared = %v, want 25", v.LengthSquared())
	}
	if d := V(1, 1, 1).Distance(V(1, 1, 4)); !almostEqual(d, 3) {
		t.Errorf("Distance = %v, want 3", d)
	}
}

func TestNormalized(t *testing.T) {
	n := V(0, 3, 4).Normalized()
	if !almostEqual(n.Length(), 1) {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}
	if zero := V(0, 0, 0).Normalized(); zero != V(0, 0, 0) {
		t.Errorf("normalizing zero vector = %v", zero)
	}
}

func TestLerpMinMax(t *testing.T) {
	v := V(0, 0, 0)
	w := V(2, 4, 6)
	if got := v.Lerp(w, 0.5); got != V(1, 2, 3) {
		t.Errorf("Lerp = %v", got)
	}
	if got := Min(V(1, 5, 3), V(2, 4, 3)); got != V(1, 4, 3) {
		t.Errorf("Min = %v", got)
	}
	if got := Max(V(1, 5, 3), V(2, 4, 3)); got != V(2, 5, 3) {
		t.Errorf("Max = %v", got)
	}
}
