package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/internal/wavio"
)

var flagNoiseFile string

var denoiseCmd = &cobra.Command{
	Use:   "denoise <input.wav> <output.wav>",
	Short: "Spectrally denoise a WAV file",
	Long: `Denoise a mono 16-bit PCM WAV file with spectral subtraction.

By default the noise profile is estimated from the start of the input
itself, which works for recordings that begin with ambient noise. Pass
--noise to estimate the profile from a separate noise-only recording
instead.

Example:
  voiceid denoise noisy.wav clean.wav
  voiceid denoise noisy.wav clean.wav --noise room-tone.wav`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reducer, err := newReducer(cfg)
		if err != nil {
			return err
		}

		samples, info, err := wavio.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		if flagNoiseFile != "" {
			noise, _, err := wavio.ReadFile(flagNoiseFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", flagNoiseFile, err)
			}
			if err := reducer.EstimateNoiseProfile(noise); err != nil {
				return fmt.Errorf("estimate noise profile: %w", err)
			}
		}

		denoised, err := reducer.Reduce(samples)
		if err != nil {
			return fmt.Errorf("reduce: %w", err)
		}

		if err := wavio.WriteFile(args[1], denoised, info.SampleRate); err != nil {
			return fmt.Errorf("write %s: %w", args[1], err)
		}

		fmt.Printf("Wrote %s (%d samples at %d Hz)\n", args[1], len(denoised), info.SampleRate)
		return nil
	},
}

func init() {
	denoiseCmd.Flags().StringVar(&flagNoiseFile, "noise", "", "noise-only WAV file for profile estimation")
}
