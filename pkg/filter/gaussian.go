// Package filter implements the Gaussian smoothing primitive used by
// the out-of-focus section augmentation. The filter is separable and
// operates on single (Y, X) planes with reflect boundary handling, so
// a smoothed plane has the same shape as its input.
package filter

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// kernelTruncate bounds the kernel support at this many standard
// deviations on each side of the center.
const kernelTruncate = 4.0

// Kernel returns a normalized 1D Gaussian kernel for the given sigma.
// The kernel has 2*radius+1 taps with radius = int(4*sigma + 0.5); a
// sigma <= 0 yields the single-tap identity kernel.
func Kernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(kernelTruncate*sigma + 0.5)
	k := make([]float64, 2*radius+1)
	for i := range k {
		d := float64(i - radius)
		k[i] = math.Exp(-0.5 * d * d / (sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// reflect maps an out-of-range coordinate into [0, n) by mirroring at
// the array edges with edge duplication: for [a b c d] the extension
// reads ... b a | a b c d | d c ...
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Gaussian2D smooths a (height x width) plane with an isotropic
// Gaussian of the given width and returns the result as a new slice.
// The input is not modified. A sigma <= 0 returns an exact copy.
func Gaussian2D(plane []float64, height, width int, sigma float64) []float64 {
	out := make([]float64, len(plane))
	if sigma <= 0 {
		copy(out, plane)
		return out
	}
	k := Kernel(sigma)
	radius := len(k) / 2

	// Horizontal pass into a scratch plane, then vertical pass.
	tmp := make([]float64, len(plane))
	for y := 0; y < height; y++ {
		row := plane[y*width : (y+1)*width]
		dst := tmp[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var acc float64
			for t, w := range k {
				acc += w * row[reflect(x+t-radius, width)]
			}
			dst[x] = acc
		}
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			var acc float64
			for t, w := range k {
				acc += w * tmp[reflect(y+t-radius, height)*width+x]
			}
			out[y*width+x] = acc
		}
	}
	return out
}
