// Package augment implements randomized data augmentation for
// volumetric EM training samples. Each augmentor follows a two-phase
// contract: Prepare negotiates the output shape contract and draws the
// per-example skip decision, Apply perturbs the realized sample.
//
// Augmentors are stateless between examples. The skip decision drawn
// in Prepare is returned to the caller and threaded back into Apply
// explicitly, so a single augmentor can be shared across pipeline
// workers as long as each worker constructs it with its own random
// stream.
package augment

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"emaugment/pkg/volume"
)

// ErrInvalidConfig reports an out-of-range or unrecognized construction
// parameter. It is returned eagerly by constructors, never deferred to
// call time.
var ErrInvalidConfig = errors.New("invalid augmentor configuration")

// ErrPrecondition reports a caller contract violation detected at the
// start of Apply: mismatched volume extents across keys, or a section
// count that does not fit the z-extent. No mutation has occurred when
// it is returned.
var ErrPrecondition = errors.New("augmentation precondition violated")

// Spec is the declared per-key shape contract negotiated between the
// pipeline driver and its augmentors. None of the augmentors in this
// package changes it; they perturb pixels within existing extents.
type Spec map[string]volume.Shape

// Decision carries the per-example random choices made during Prepare.
// It is consumed by exactly one paired Apply call.
type Decision struct {
	// Skip makes the paired Apply call a no-op.
	Skip bool
}

// Options carries the per-call inputs that are not part of persisted
// configuration.
type Options struct {
	// Keys selects the sample volumes to perturb. Ignored by Flip,
	// which always acts on every volume to keep the sample
	// co-registered.
	Keys []string

	// Rule optionally fixes the flip rule instead of drawing one.
	// Only used by Flip.
	Rule *volume.FlipRule
}

// Augmentor is the capability shared by all transforms in this
// package. The pipeline driver calls Prepare once per training
// example, then Apply with the realized sample and the decision
// Prepare returned.
type Augmentor interface {
	// Prepare negotiates the output spec for the next example and
	// draws the per-example skip decision. The spec is returned
	// possibly transformed; for the augmentors in this package it is
	// always returned unchanged.
	Prepare(spec Spec) (Spec, Decision)

	// Apply perturbs the sample in place according to the decision
	// and options. Volumes may be mutated or, for shape-changing
	// transforms, replaced within the sample map.
	Apply(sample volume.Sample, dec Decision, opt Options) error
}

// Rand is the source of uniform random draws consumed by the
// augmentors. *rand.Rand from golang.org/x/exp/rand satisfies it;
// tests may substitute a scripted implementation.
type Rand interface {
	// Float64 returns a draw from uniform [0, 1).
	Float64() float64

	// Intn returns a draw from the uniform integers [0, n).
	Intn(n int) int

	// Perm returns a random permutation of [0, n).
	Perm(n int) []int
}

// NewRand returns a seedable random stream suitable for constructing
// augmentors. Pipeline workers running in parallel must each own an
// independent stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// drawSkip draws the per-example skip decision with the given
// probability.
func drawSkip(rng Rand, skipRatio float64) Decision {
	return Decision{Skip: rng.Float64() < skipRatio}
}

// validateSkipRatio checks a skip probability at construction time.
func validateSkipRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: skip ratio %v outside [0,1]", ErrInvalidConfig, ratio)
	}
	return nil
}
