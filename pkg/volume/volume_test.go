package volume

import (
	"testing"

	"emaugment/pkg/geometry"
)

func TestShapeValidate(t *testing.T) {
	if err := (Shape{4, 8, 8}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{8, 8}).Validate(); err == nil {
		t.Error("2D shape accepted")
	}
	if err := (Shape{2, 0, 8, 8}).Validate(); err == nil {
		t.Error("zero extent accepted")
	}
}

func TestShapeAccessors(t *testing.T) {
	s := Shape{2, 3, 4, 5, 6}
	z, y, x := s.Spatial()
	if z != 4 || y != 5 || x != 6 {
		t.Errorf("Spatial = (%d,%d,%d), want (4,5,6)", z, y, x)
	}
	if s.Lead() != 6 {
		t.Errorf("Lead = %d, want 6", s.Lead())
	}
	if s.Size() != 720 {
		t.Errorf("Size = %d, want 720", s.Size())
	}
	if !s.Equal(s.Clone()) {
		t.Error("clone not equal to original")
	}
	if s.Equal(Shape{2, 3, 4, 5, 7}) {
		t.Error("different shapes compare equal")
	}
}

func TestPlaneIndexing(t *testing.T) {
	v := MustNew(2, 3, 4, 5)
	// Tag each voxel with a unique value and read it back through the
	// plane view.
	for i := range v.Data {
		v.Data[i] = float64(i)
	}
	for c := 0; c < v.Lead(); c++ {
		for z := 0; z < 3; z++ {
			plane := v.Plane(c, z)
			if len(plane) != 4*5 {
				t.Fatalf("plane length %d, want 20", len(plane))
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 5; x++ {
					want := float64(((c*3+z)*4+y)*5 + x)
					if got := v.At(c, z, y, x); got != want {
						t.Fatalf("At(%d,%d,%d,%d) = %v, want %v", c, z, y, x, got, want)
					}
				}
			}
		}
	}

	v.Set(1, 2, 3, 4, -1)
	if v.At(1, 2, 3, 4) != -1 {
		t.Error("Set/At mismatch")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := MustNew(2, 2, 2)
	v.Fill(0.5)
	c := v.Clone()
	c.Data[0] = 9
	if v.Data[0] != 0.5 {
		t.Error("clone shares backing data with original")
	}
}

func TestPhysicalExtent(t *testing.T) {
	v := MustNew(10, 4, 8)
	v.VoxelSize = geometry.V(2, 3, 0.5)
	got := v.PhysicalExtent()
	if got != geometry.V(16, 12, 5) {
		t.Errorf("PhysicalExtent = %v, want (16,12,5)", got)
	}
}

func TestSharedExtent(t *testing.T) {
	s := Sample{
		"input": MustNew(4, 8, 8),
		"label": MustNew(2, 4, 8, 8),
		"odd":   MustNew(4, 8, 9),
	}

	t.Run("Matching", func(t *testing.T) {
		z, y, x, err := s.SharedExtent([]string{"input", "label"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if z != 4 || y != 8 || x != 8 {
			t.Errorf("extent = (%d,%d,%d), want (4,8,8)", z, y, x)
		}
	})

	t.Run("Mismatched", func(t *testing.T) {
		if _, _, _, err := s.SharedExtent([]string{"input", "odd"}); err == nil {
			t.Error("mismatched extents accepted")
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		if _, _, _, err := s.SharedExtent([]string{"input", "absent"}); err == nil {
			t.Error("missing key accepted")
		}
	})

	t.Run("NoKeys", func(t *testing.T) {
		if _, _, _, err := s.SharedExtent(nil); err == nil {
			t.Error("empty key set accepted")
		}
	})
}
