package augment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"emaugment/pkg/volume"
)

// GreyMode selects the granularity of the greyscale perturbation.
type GreyMode int

const (
	// Grey2D draws independent perturbation parameters for every
	// z-slice of every keyed volume.
	Grey2D GreyMode = iota

	// Grey3D draws one parameter set per keyed volume and applies it
	// to the whole volume.
	Grey3D

	// GreyMix resolves to Grey3D or Grey2D by a coin flip, once per
	// call.
	GreyMix
)

// ParseGreyMode maps the configuration literals "2D", "3D" and "mix"
// to their GreyMode.
func ParseGreyMode(s string) (GreyMode, error) {
	switch s {
	case "2D":
		return Grey2D, nil
	case "3D":
		return Grey3D, nil
	case "mix":
		return GreyMix, nil
	}
	return 0, fmt.Errorf("%w: unknown greyscale mode %q", ErrInvalidConfig, s)
}

// String returns the configuration literal for the mode.
func (m GreyMode) String() string {
	switch m {
	case Grey2D:
		return "2D"
	case Grey3D:
		return "3D"
	case GreyMix:
		return "mix"
	}
	return fmt.Sprintf("GreyMode(%d)", int(m))
}

// Perturbation strength constants, inherited from the ELEKTRONN
// greyscale augmentation.
const (
	contrastFactor   = 0.3
	brightnessFactor = 0.3
)

// Greyscale randomly rescales contrast and brightness and applies a
// random gamma correction to keyed volumes, treating values as
// normalized intensities in [0,1].
type Greyscale struct {
	mode      GreyMode
	skipRatio float64
	rng       Rand
}

// NewGreyscale validates the configuration and returns the augmentor.
func NewGreyscale(mode GreyMode, skipRatio float64, rng Rand) (*Greyscale, error) {
	switch mode {
	case Grey2D, Grey3D, GreyMix:
	default:
		return nil, fmt.Errorf("%w: unknown greyscale mode %d", ErrInvalidConfig, int(mode))
	}
	if err := validateSkipRatio(skipRatio); err != nil {
		return nil, err
	}
	return &Greyscale{mode: mode, skipRatio: skipRatio, rng: rng}, nil
}

// Prepare draws the per-example skip decision; the spec is returned
// unchanged.
func (g *Greyscale) Prepare(spec Spec) (Spec, Decision) {
	return spec, drawSkip(g.rng, g.skipRatio)
}

// Apply perturbs the volumes named by opt.Keys in place. In 3D mode a
// single parameter set covers each whole volume; in 2D mode parameters
// vary independently along Z. A configured mix mode is resolved once
// per call by a coin flip.
func (g *Greyscale) Apply(sample volume.Sample, dec Decision, opt Options) error {
	if dec.Skip {
		return nil
	}
	if _, _, _, err := sample.SharedExtent(opt.Keys); err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	mode := g.mode
	if mode == GreyMix {
		if g.rng.Float64() > 0.5 {
			mode = Grey3D
		} else {
			mode = Grey2D
		}
	}

	for _, key := range opt.Keys {
		v := sample[key]
		if mode == Grey3D {
			perturb(v.Data, g.drawParams())
			continue
		}
		zdim, _, _ := v.Spatial()
		for z := 0; z < zdim; z++ {
			p := g.drawParams()
			for c := 0; c < v.Lead(); c++ {
				perturb(v.Plane(c, z), p)
			}
		}
	}
	return nil
}

// greyParams is the realized parameter set for one perturbation
// target (a whole volume in 3D mode, a single z-slice in 2D mode).
type greyParams struct {
	contrast   float64
	brightness float64
	gamma      float64
}

// drawParams realizes one parameter set: contrast scale in
// 1 +- contrastFactor/2, brightness shift in +- brightnessFactor/2,
// and gamma exponent 2^u with u uniform in (-1, 1).
func (g *Greyscale) drawParams() greyParams {
	return greyParams{
		contrast:   1 + (g.rng.Float64()-0.5)*contrastFactor,
		brightness: (g.rng.Float64() - 0.5) * brightnessFactor,
		gamma:      math.Pow(2, g.rng.Float64()*2-1),
	}
}

// perturb applies the parameter set to the data in place: contrast
// scale, brightness shift, clip to [0,1], then gamma. The clip must
// precede the gamma step so the power of a negative or >1 base never
// occurs; it also bounds all output values to [0,1].
func perturb(data []float64, p greyParams) {
	floats.Scale(p.contrast, data)
	floats.AddConst(p.brightness, data)
	for i, v := range data {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		data[i] = math.Pow(v, p.gamma)
	}
}
