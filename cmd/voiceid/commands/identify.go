package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-voice/internal/wavio"
	"github.com/cwbudde/algo-voice/voice/features"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <recording.wav>",
	Short: "Identify the speaker in a WAV file",
	Long: `Match a recording against the enrolled speaker profiles.

The recording is denoised, reduced to a feature vector, and compared to
each profile by cosine similarity. Prints the best match and the
audible characteristics of the frame, or "unknown" when no profile is
close enough.

Example:
  voiceid identify mystery.wav`,
	Args: cobra.ExactArgs(1),
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

		samples, info, err := wavio.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		analysis, err := a.Analyze(ctx, features.Frame{
			Samples:    samples,
			SampleRate: float64(info.SampleRate),
		})
		if err != nil {
			return err
		}

		res := analysis.Result
		if res.Unknown() {
			fmt.Println("Speaker: unknown")
		} else {
			fmt.Printf("Speaker: %s (confidence %.2f)\n", res.SpeakerID, res.Confidence)
		}
		fmt.Printf("Pitch:   %.1f Hz\n", res.Characteristics.Pitch)
		fmt.Printf("Volume:  %.3f RMS\n", res.Characteristics.Volume)
		fmt.Printf("Tempo:   %.3f zero-crossings/sample\n", res.Characteristics.Tempo)
		return nil
	},
}
