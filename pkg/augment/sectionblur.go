package augment

import (
	"fmt"
	"sort"

	"emaugment/pkg/filter"
	"emaugment/pkg/volume"
)

// BlurMode selects how an out-of-focus section is synthesized.
type BlurMode int

const (
	// BlurFull replaces whole z-sections with their blurred version,
	// with an independent blur width per volume key.
	BlurFull BlurMode = iota

	// BlurPartial blurs a randomly chosen quadrant subset of each
	// section, sharing one blur width across volume keys.
	BlurPartial

	// BlurMix flips a coin per section and key between full and
	// partial behavior.
	BlurMix
)

// ParseBlurMode maps the configuration literals "full", "partial" and
// "mix" to their BlurMode.
func ParseBlurMode(s string) (BlurMode, error) {
	switch s {
	case "full":
		return BlurFull, nil
	case "partial":
		return BlurPartial, nil
	case "mix":
		return BlurMix, nil
	}
	return 0, fmt.Errorf("%w: unknown blur mode %q", ErrInvalidConfig, s)
}

// String returns the configuration literal for the mode.
func (m BlurMode) String() string {
	switch m {
	case BlurFull:
		return "full"
	case BlurPartial:
		return "partial"
	case BlurMix:
		return "mix"
	}
	return fmt.Sprintf("BlurMode(%d)", int(m))
}

// SectionBlur introduces out-of-focus sections into a training sample.
// The number of affected z-sections is drawn uniformly from
// [1, MaxSections] and each is blurred with a Gaussian of random width,
// either across the whole section or across a random quadrant subset.
type SectionBlur struct {
	maxSections int
	sigmaMax    float64
	mode        BlurMode
	skipRatio   float64
	rng         Rand
}

// NewSectionBlur validates the configuration and returns the augmentor.
// maxSections and sigmaMax must be non-negative, skipRatio must lie in
// [0,1] and mode must be one of the enumerated blur modes.
func NewSectionBlur(maxSections int, sigmaMax float64, mode BlurMode, skipRatio float64, rng Rand) (*SectionBlur, error) {
	if maxSections < 0 {
		return nil, fmt.Errorf("%w: max sections %d is negative", ErrInvalidConfig, maxSections)
	}
	if sigmaMax < 0 {
		return nil, fmt.Errorf("%w: sigma max %v is negative", ErrInvalidConfig, sigmaMax)
	}
	switch mode {
	case BlurFull, BlurPartial, BlurMix:
	default:
		return nil, fmt.Errorf("%w: unknown blur mode %d", ErrInvalidConfig, int(mode))
	}
	if err := validateSkipRatio(skipRatio); err != nil {
		return nil, err
	}
	return &SectionBlur{
		maxSections: maxSections,
		sigmaMax:    sigmaMax,
		mode:        mode,
		skipRatio:   skipRatio,
		rng:         rng,
	}, nil
}

// Prepare draws the per-example skip decision. The spec is returned
// unchanged: blurring reads pixels but never changes declared extents.
func (b *SectionBlur) Prepare(spec Spec) (Spec, Decision) {
	return spec, drawSkip(b.rng, b.skipRatio)
}

// Apply blurs randomly chosen z-sections of the volumes named by
// opt.Keys, in place. It fails before any mutation if the keyed
// volumes disagree on spatial extent or if the drawn section count
// does not fit the z-extent.
func (b *SectionBlur) Apply(sample volume.Sample, dec Decision, opt Options) error {
	if dec.Skip {
		return nil
	}
	if b.maxSections < 1 {
		return fmt.Errorf("%w: section blur needs max sections >= 1, have %d",
			ErrPrecondition, b.maxSections)
	}
	num := 1 + b.rng.Intn(b.maxSections)

	zdim, ydim, xdim, err := sample.SharedExtent(opt.Keys)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if num >= zdim {
		return fmt.Errorf("%w: %d sections do not fit z-extent %d",
			ErrPrecondition, num, zdim)
	}

	plan := b.drawPlan(num, zdim, ydim, xdim, opt.Keys)
	for _, sec := range plan {
		applySection(sample, opt.Keys, sec)
	}
	return nil
}

// keyPlan holds the realized random choices for one (section, key)
// pair.
type keyPlan struct {
	// sigma is the Gaussian blur width for this key's section.
	sigma float64

	// whole replaces the entire section with its blurred version.
	// When false the quadrant split below applies.
	whole bool

	// splitX, splitY partition the section into four quadrants.
	splitX, splitY int

	// quads selects which quadrants receive the blurred pixels, in
	// the order [:y,:x], [y:,:x], [:y,x:], [y:,x:]. All-false and
	// all-true are both valid outcomes.
	quads [4]bool
}

// sectionPlan holds the realized random choices for one z-section,
// with one keyPlan per volume key in Options.Keys order.
type sectionPlan struct {
	z    int
	keys []keyPlan
}

// drawPlan realizes every random choice for this call up front, so the
// mutation below is fully deterministic given the plan.
func (b *SectionBlur) drawPlan(num, zdim, ydim, xdim int, keys []string) []sectionPlan {
	zlocs := b.rng.Perm(zdim)[:num]
	sort.Ints(zlocs)

	plan := make([]sectionPlan, 0, num)
	for _, z := range zlocs {
		sec := sectionPlan{z: z, keys: make([]keyPlan, len(keys))}
		if b.mode == BlurFull {
			for i := range keys {
				sec.keys[i] = keyPlan{
					sigma: b.rng.Float64() * b.sigmaMax,
					whole: true,
				}
			}
		} else {
			// Partial and mix share one blur width across keys.
			sigma := b.rng.Float64() * b.sigmaMax
			for i := range keys {
				kp := keyPlan{sigma: sigma}
				if b.mode == BlurMix && b.rng.Float64() > 0.5 {
					kp.whole = true
				} else {
					kp.splitX = b.rng.Intn(xdim)
					kp.splitY = b.rng.Intn(ydim)
					for q := range kp.quads {
						kp.quads[q] = b.rng.Float64() > 0.5
					}
				}
				sec.keys[i] = kp
			}
		}
		plan = append(plan, sec)
	}
	return plan
}

// applySection mutates one z-section of every keyed volume according
// to the realized plan.
func applySection(sample volume.Sample, keys []string, sec sectionPlan) {
	for i, key := range keys {
		kp := sec.keys[i]
		v := sample[key]
		_, ydim, xdim := v.Spatial()
		for c := 0; c < v.Lead(); c++ {
			plane := v.Plane(c, sec.z)
			blurred := filter.Gaussian2D(plane, ydim, xdim, kp.sigma)
			if kp.whole {
				copy(plane, blurred)
				continue
			}
			blendQuadrants(plane, blurred, xdim, kp.splitX, kp.splitY, kp.quads)
		}
	}
}

// blendQuadrants overwrites the selected quadrants of dst with the
// corresponding pixels of src. The split point (x, y) partitions the
// plane into [:y,:x], [y:,:x], [:y,x:] and [y:,x:].
func blendQuadrants(dst, src []float64, width, x, y int, quads [4]bool) {
	height := len(dst) / width
	copyRect := func(y0, y1, x0, x1 int) {
		for r := y0; r < y1; r++ {
			copy(dst[r*width+x0:r*width+x1], src[r*width+x0:r*width+x1])
		}
	}
	if quads[0] {
		copyRect(0, y, 0, x)
	}
	if quads[1] {
		copyRect(y, height, 0, x)
	}
	if quads[2] {
		copyRect(0, y, x, width)
	}
	if quads[3] {
		copyRect(y, height, x, width)
	}
}
