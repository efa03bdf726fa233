package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Inspect and manage enrolled speakers",
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

		names := a.Store().List()
		if len(names) == 0 {
			fmt.Println("No speakers enrolled.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSAMPLES\tUPDATED")
		for _, name := range names {
			p, err := a.Store().Get(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", p.Name, p.SampleCount, p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var speakersRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an enrolled speaker",
	Args:  cobra.ExactArgs(1),
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

		a.Store().Remove(args[0])
		if err := a.Save(ctx); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}

		fmt.Printf("Removed %q\n", args[0])
		return nil
	},
}

func init() {
	speakersCmd.AddCommand(speakersRemoveCmd)
}
