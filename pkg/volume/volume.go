// Package volume defines the in-memory representation of volumetric
// training data: dense multi-channel 3D arrays stored as flat float64
// slices in row-major order, and samples grouping several co-registered
// volumes under string keys.
package volume

import (
	"fmt"

	"emaugment/pkg/geometry"
)

// Shape describes the dimensions of a volume. It has at least three
// entries; the trailing three are the spatial extents in (Z, Y, X)
// order. Any leading entries are channel-like dimensions.
type Shape []int

// Validate checks that the shape has at least three dimensions and that
// every extent is positive.
func (s Shape) Validate() error {
	if len(s) < 3 {
		return fmt.Errorf("shape %v must have at least 3 dimensions", []int(s))
	}
	for _, d := range s {
		if d <= 0 {
			return fmt.Errorf("shape %v has non-positive extent", []int(s))
		}
	}
	return nil
}

// Spatial returns the trailing (Z, Y, X) extents.
func (s Shape) Spatial() (z, y, x int) {
	n := len(s)
	return s[n-3], s[n-2], s[n-1]
}

// Lead returns the product of all leading (non-spatial) extents, i.e.
// the number of independent (Z, Y, X) blocks stored in the volume.
func (s Shape) Lead() int {
	lead := 1
	for _, d := range s[:len(s)-3] {
		lead *= d
	}
	return lead
}

// Size returns the total number of elements described by the shape.
func (s Shape) Size() int {
	size := 1
	for _, d := range s {
		size *= d
	}
	return size
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Equal reports whether two shapes are identical in rank and extents.
func (s Shape) Equal(t Shape) bool {
	if len(s) != len(t) {
		return false
	}
	for i := range s {
		if s[i] != t[i] {
			return false
		}
	}
	return true
}

// Volume is a dense multi-channel 3D array. Data is stored in row-major
// order with X fastest, then Y, then Z, then any leading channel
// dimensions. VoxelSize is the physical size of a voxel in (X, Y, Z)
// world units; the zero value means unit voxels.
type Volume struct {
	// Data holds the voxel values as a flat array in row-major order.
	Data []float64

	// Shape holds the dimensions, trailing (Z, Y, X).
	Shape Shape

	// VoxelSize is the physical extent of one voxel along X, Y, Z.
	VoxelSize geometry.Vec3
}

// New allocates a zero-filled volume with the given shape and unit
// voxel size.
func New(shape ...int) (*Volume, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Volume{
		Data:      make([]float64, s.Size()),
		Shape:     s.Clone(),
		VoxelSize: geometry.V(1, 1, 1),
	}, nil
}

// MustNew is like New but panics on an invalid shape. Intended for
// tests and literals with known-good shapes.
func MustNew(shape ...int) *Volume {
	v, err := New(shape...)
	if err != nil {
		panic(err)
	}
	return v
}

// Fill sets every voxel to the given value.
func (v *Volume) Fill(value float64) {
	for i := range v.Data {
		v.Data[i] = value
	}
}

// Clone returns a deep copy of the volume.
func (v *Volume) Clone() *Volume {
	c := &Volume{
		Data:      make([]float64, len(v.Data)),
		Shape:     v.Shape.Clone(),
		VoxelSize: v.VoxelSize,
	}
	copy(c.Data, v.Data)
	return c
}

// Spatial returns the trailing (Z, Y, X) extents.
func (v *Volume) Spatial() (z, y, x int) {
	return v.Shape.Spatial()
}

// Lead returns the number of leading channel blocks.
func (v *Volume) Lead() int {
	return v.Shape.Lead()
}

// PhysicalExtent returns the spatial extent of the volume in world
// units, taking the voxel size into account.
func (v *Volume) PhysicalExtent() geometry.Vec3 {
	z, y, x := v.Spatial()
	return v.VoxelSize.Mul(geometry.V(float64(x), float64(y), float64(z)))
}

// Plane returns the (Y, X) plane of channel block c at section z as a
// mutable view into the volume's backing array.
func (v *Volume) Plane(c, z int) []float64 {
	zdim, ydim, xdim := v.Spatial()
	area := ydim * xdim
	off := (c*zdim + z) * area
	return v.Data[off : off+area]
}

// At returns the voxel value at channel block c and spatial coordinate
// (z, y, x).
func (v *Volume) At(c, z, y, x int) float64 {
	_, _, xdim := v.Spatial()
	return v.Plane(c, z)[y*xdim+x]
}

// Set assigns the voxel value at channel block c and spatial coordinate
// (z, y, x).
func (v *Volume) Set(c, z, y, x int, value float64) {
	_, _, xdim := v.Spatial()
	v.Plane(c, z)[y*xdim+x] = value
}

// Sample is a named collection of co-registered volumes making up one
// training example.
type Sample map[string]*Volume

// SharedExtent resolves the common (Z, Y, X) extent across the given
// keys. It fails if any key is missing from the sample or if the
// spatial extents differ between keys.
func (s Sample) SharedExtent(keys []string) (z, y, x int, err error) {
	if len(keys) == 0 {
		return 0, 0, 0, fmt.Errorf("no volume keys given")
	}
	for i, key := range keys {
		v, ok := s[key]
		if !ok {
			return 0, 0, 0, fmt.Errorf("volume %q not in sample", key)
		}
		vz, vy, vx := v.Spatial()
		if i == 0 {
			z, y, x = vz, vy, vx
			continue
		}
		if vz != z || vy != y || vx != x {
			return 0, 0, 0, fmt.Errorf("volume %q extent (%d,%d,%d) differs from (%d,%d,%d)",
				key, vz, vy, vx, z, y, x)
		}
	}
	return z, y, x, nil
}

// Clone returns a deep copy of the sample.
func (s Sample) Clone() Sample {
	c := make(Sample, len(s))
	for k, v := range s {
		c[k] = v.Clone()
	}
	return c
}
