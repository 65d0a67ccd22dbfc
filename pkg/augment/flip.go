package augment

import "emaugment/pkg/volume"

// Flip applies a random combination of spatial axis reversals and a
// Y/X transpose to a sample. The same rule is applied to every volume
// in the sample, keeping all volumes co-registered, so Options.Keys is
// ignored. Flip never skips on its own.
type Flip struct {
	rng Rand
}

// NewFlip returns the augmentor.
func NewFlip(rng Rand) *Flip {
	return &Flip{rng: rng}
}

// Prepare is the identity; flips never change the declared spec and
// carry no skip decision.
func (f *Flip) Prepare(spec Spec) (Spec, Decision) {
	return spec, Decision{}
}

// Apply flips every volume in the sample. If opt.Rule is nil a fresh
// rule is drawn as four independent coin flips; otherwise the supplied
// rule is used verbatim. Volumes are replaced within the sample map
// since a transpose can change the backing layout.
func (f *Flip) Apply(sample volume.Sample, dec Decision, opt Options) error {
	if dec.Skip {
		return nil
	}
	rule := volume.FlipRule{}
	if opt.Rule != nil {
		rule = *opt.Rule
	} else {
		rule.ReverseZ = f.rng.Float64() > 0.5
		rule.ReverseY = f.rng.Float64() > 0.5
		rule.ReverseX = f.rng.Float64() > 0.5
		rule.Transpose = f.rng.Float64() > 0.5
	}
	for key, v := range sample {
		sample[key] = volume.Flip(v, rule)
	}
	return nil
}
