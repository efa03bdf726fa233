// Package commands implements the voiceid command tree.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/denoise"
	"github.com/cwbudde/algo-voice/voice/analyzer"
	"github.com/cwbudde/algo-voice/voice/features"
	"github.com/cwbudde/algo-voice/voice/storage"
	"github.com/cwbudde/algo-voice/voice/store"
)

var (
	flagConfig     string
	flagProfileDir string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "voiceid",
	Short:         "Voice denoising and speaker identification over WAV files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagProfileDir, "profile-dir", "", "speaker profile directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(denoiseCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(speakersCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (Config, error) {
	cfg, err := LoadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagProfileDir != "" {
		cfg.ProfileDir = flagProfileDir
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func newReducer(cfg Config) (*denoise.Reducer, error) {
	return denoise.New(
		denoise.WithTransformSize(cfg.TransformSize),
		denoise.WithOverSubtraction(cfg.OverSubtraction),
		denoise.WithSpectralFloor(cfg.SpectralFloor),
	)
}

// newAnalyzer builds the full pipeline backed by the profile database.
// The caller must Close the analyzer.
func newAnalyzer(cfg Config) (*analyzer.Analyzer, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	reducer, err := newReducer(cfg)
	if err != nil {
		return nil, err
	}

	extractor, err := features.NewExtractor(
		features.WithTargetRate(cfg.TargetRate),
		features.WithAnalysisSize(cfg.AnalysisSize),
	)
	if err != nil {
		return nil, err
	}

	profiles, err := store.New(
		store.WithThreshold(cfg.Threshold),
		store.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	db, err := storage.NewBadger(cfg.ProfileDir, storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open profile database: %w", err)
	}

	return analyzer.New(
		analyzer.WithReducer(reducer),
		analyzer.WithExtractor(extractor),
		analyzer.WithStore(profiles),
		analyzer.WithStorage(db),
		analyzer.WithLogger(log),
	)
}
