package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds the CLI's analysis parameters and profile location.
type Config struct {
	// ProfileDir is the badger database directory for speaker profiles.
	ProfileDir string `yaml:"profile_dir"`

	// TransformSize is the STFT frame size used for noise reduction.
	TransformSize int `yaml:"transform_size"`
	// OverSubtraction scales the noise profile before subtraction.
	OverSubtraction float64 `yaml:"over_subtraction"`
	// SpectralFloor is the fraction of the original magnitude kept as a
	// lower bound.
	SpectralFloor float64 `yaml:"spectral_floor"`

	// TargetRate is the analysis sample rate in Hz.
	TargetRate float64 `yaml:"target_rate"`
	// AnalysisSize is the feature extraction sub-window size.
	AnalysisSize int `yaml:"analysis_size"`

	// Threshold is the minimum cosine similarity for a speaker match.
	Threshold float64 `yaml:"threshold"`
}

// DefaultConfig returns the built-in parameter set with profiles stored
// under the user's home directory.
func DefaultConfig() Config {
	dir := ".voiceid"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".voiceid")
	}
	return Config{
		ProfileDir:      filepath.Join(dir, "profiles"),
		TransformSize:   1024,
		OverSubtraction: 2.0,
		SpectralFloor:   0.1,
		TargetRate:      16000,
		AnalysisSize:    512,
		Threshold:       0.7,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
