package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"emaugment/pkg/augment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Blur.MaxSections != 1 || cfg.Blur.SigmaMax != 5.0 || cfg.Blur.Mode != "full" {
		t.Errorf("unexpected blur defaults: %+v", cfg.Blur)
	}
	if cfg.Blur.SkipRatio != 0.3 || cfg.Greyscale.SkipRatio != 0.3 {
		t.Error("unexpected skip ratio defaults")
	}
	if cfg.Greyscale.Mode != "mix" {
		t.Errorf("greyscale mode default = %q", cfg.Greyscale.Mode)
	}
	if !cfg.Flip.Enabled {
		t.Error("flip should default to enabled")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Blur.MaxSections != DefaultConfig().Blur.MaxSections {
		t.Error("missing file did not return defaults")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "aug.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Blur.MaxSections = 3
	cfg.Blur.Mode = "mix"
	cfg.Greyscale.Mode = "2D"
	cfg.Flip.Enabled = false

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.Blur.MaxSections != 3 || loaded.Blur.Mode != "mix" {
		t.Errorf("round trip lost blur settings: %+v", loaded)
	}
	if loaded.Greyscale.Mode != "2D" || loaded.Flip.Enabled {
		t.Errorf("round trip lost greyscale/flip settings: %+v", loaded)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aug.yaml")
	partial := []byte("blur:\n  sigmaMax: 2.5\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Blur.SigmaMax != 2.5 {
		t.Errorf("override not applied: %v", cfg.Blur.SigmaMax)
	}
	if cfg.Greyscale.Mode != "mix" {
		t.Error("unrelated defaults were lost")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aug.yaml")
	if err := os.WriteFile(path, []byte("blur: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestAugmentors(t *testing.T) {
	rng := augment.NewRand(1)

	t.Run("Defaults", func(t *testing.T) {
		augs, err := DefaultConfig().Augmentors(rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(augs) != 3 {
			t.Errorf("augmentor count = %d, want 3", len(augs))
		}
	})

	t.Run("FlipDisabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Flip.Enabled = false
		augs, err := cfg.Augmentors(rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(augs) != 2 {
			t.Errorf("augmentor count = %d, want 2", len(augs))
		}
	})

	t.Run("BadBlurMode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Blur.Mode = "sideways"
		if _, err := cfg.Augmentors(rng); !errors.Is(err, augment.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("BadGreyMode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Greyscale.Mode = "5D"
		if _, err := cfg.Augmentors(rng); !errors.Is(err, augment.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("BadSkipRatio", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Blur.SkipRatio = 1.2
		if _, err := cfg.Augmentors(rng); !errors.Is(err, augment.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})
}
