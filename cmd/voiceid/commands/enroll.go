package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/internal/wavio"
	"github.com/cwbudde/algo-voice/voice/features"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name> <recording.wav> [more.wav...]",
	Short: "Enroll a speaker from WAV recordings",
	Long: `Build a voice profile for a speaker from one or more recordings.

Each recording is denoised and reduced to a feature vector; the profile
stores the running average and variance across them. Enrolling an
existing name replaces the profile.

Example:
  voiceid enroll alice sample1.wav sample2.wav sample3.wav`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.Load(ctx); err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}

		name := args[0]
		frames := make([]features.Frame, 0, len(args)-1)
		for _, path := range args[1:] {
			samples, info, err := wavio.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			frames = append(frames, features.Frame{
				Samples:    samples,
				SampleRate: float64(info.SampleRate),
			})
		}

		if err := a.EnrollFrames(name, frames...); err != nil {
			return err
		}
		if err := a.Save(ctx); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}

		fmt.Printf("Enrolled %q from %d recording(s)\n", name, len(frames))
		return nil
	},
}
