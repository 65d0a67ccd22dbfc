package volume

// FlipRule encodes a geometric rearrangement of a volume's spatial
// axes: reversal along Z, Y and X, followed by a transpose of the Y
// and X axes.
type FlipRule struct {
	// ReverseZ, ReverseY and ReverseX mirror the volume along the
	// corresponding spatial axis.
	ReverseZ bool
	ReverseY bool
	ReverseX bool

	// Transpose swaps the Y and X axes after any reversals.
	Transpose bool
}

// Flip returns a new volume with the rule applied to every channel
// block of v. Reversals are applied first, then the Y/X transpose; for
// a rule with all components set, applying Flip twice reproduces the
// original volume. The transpose also swaps the X and Y voxel sizes so
// physical extents stay consistent.
func Flip(v *Volume, rule FlipRule) *Volume {
	zdim, ydim, xdim := v.Spatial()
	lead := v.Lead()

	outShape := v.Shape.Clone()
	out := &Volume{Shape: outShape, VoxelSize: v.VoxelSize}
	if rule.Transpose {
		n := len(outShape)
		outShape[n-2], outShape[n-1] = outShape[n-1], outShape[n-2]
		out.VoxelSize.X, out.VoxelSize.Y = out.VoxelSize.Y, out.VoxelSize.X
	}
	out.Data = make([]float64, len(v.Data))

	outY, outX := ydim, xdim
	if rule.Transpose {
		outY, outX = xdim, ydim
	}

	area := ydim * xdim
	outArea := outY * outX
	for c := 0; c < lead; c++ {
		src := v.Data[c*zdim*area : (c+1)*zdim*area]
		dst := out.Data[c*zdim*outArea : (c+1)*zdim*outArea]
		for z := 0; z < zdim; z++ {
			zo := z
			if rule.ReverseZ {
				zo = zdim - 1 - z
			}
			plane := src[z*area : (z+1)*area]
			outPlane := dst[zo*outArea : (zo+1)*outArea]
			for y := 0; y < ydim; y++ {
				yo := y
				if rule.ReverseY {
					yo = ydim - 1 - y
				}
				for x := 0; x < xdim; x++ {
					xo := x
					if rule.ReverseX {
						xo = xdim - 1 - x
					}
					if rule.Transpose {
						outPlane[xo*outX+yo] = plane[y*xdim+x]
					} else {
						outPlane[yo*outX+xo] = plane[y*xdim+x]
					}
				}
			}
		}
	}
	return out
}
