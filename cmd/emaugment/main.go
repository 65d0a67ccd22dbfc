package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"emaugment/pkg/augment"
	"emaugment/pkg/config"
	"emaugment/pkg/volume"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "emaugment.yaml", "Path to YAML augmentation config")
	examples := flag.Int("examples", 4, "Number of synthetic examples to augment")
	seed := flag.Uint64("seed", 0, "Random seed (overrides config; 0 uses config or clock)")
	zdim := flag.Int("z", 16, "Z extent of the synthetic volume")
	ydim := flag.Int("y", 64, "Y extent of the synthetic volume")
	xdim := flag.Int("x", 64, "X extent of the synthetic volume")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", "path", *configPath, "err", err)
	}

	s := cfg.Seed
	if *seed != 0 {
		s = *seed
	}
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := augment.NewRand(s)

	augs, err := cfg.Augmentors(rng)
	if err != nil {
		logger.Fatal("Invalid augmentation config", "err", err)
	}
	logger.Info("Augmentors ready",
		"count", len(augs),
		"blurMode", cfg.Blur.Mode,
		"greyMode", cfg.Greyscale.Mode,
		"seed", s)

	spec := augment.Spec{"input": volume.Shape{*zdim, *ydim, *xdim}}
	keys := []string{"input"}

	for i := 0; i < *examples; i++ {
		sample := volume.Sample{"input": syntheticVolume(*zdim, *ydim, *xdim)}
		before := mean(sample["input"])

		// Two-phase protocol: negotiate spec and skip decisions for
		// every augmentor first, then apply to the realized sample.
		decisions := make([]augment.Decision, len(augs))
		outSpec := spec
		for j, a := range augs {
			outSpec, decisions[j] = a.Prepare(outSpec)
		}
		for j, a := range augs {
			if err := a.Apply(sample, decisions[j], augment.Options{Keys: keys}); err != nil {
				logger.Fatal("Augmentation failed", "example", i, "err", err)
			}
		}

		v := sample["input"]
		m, sd := stat.MeanStdDev(v.Data, nil)
		logger.Info("Example augmented",
			"example", i,
			"shape", fmt.Sprint([]int(v.Shape)),
			"meanBefore", fmt.Sprintf("%.4f", before),
			"meanAfter", fmt.Sprintf("%.4f", m),
			"stddev", fmt.Sprintf("%.4f", sd))
		for j := range augs {
			logger.Debug("Decision", "example", i, "augmentor", j, "skip", decisions[j].Skip)
		}
	}
}

// syntheticVolume builds a smooth intensity ramp in [0,1], a stand-in
// for a normalized EM patch.
func syntheticVolume(zdim, ydim, xdim int) *volume.Volume {
	v := volume.MustNew(zdim, ydim, xdim)
	for z := 0; z < zdim; z++ {
		for y := 0; y < ydim; y++ {
			for x := 0; x < xdim; x++ {
				v.Set(0, z, y, x, float64(x+y+z)/float64(xdim+ydim+zdim-3))
			}
		}
	}
	return v
}

func mean(v *volume.Volume) float64 {
	return stat.Mean(v.Data, nil)
}
