package cli

import (
	"github.com/spf13/cobra"

	"github.com/illusthaey/savinghaey/internal/watcher"
)

var watchDebounce string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]...",
	Short: "Watch directories and auto-ingest new documents",
	Long: `Watches the given directories and ingests supported files as they
appear or change. Rapid successive writes to the same file are
debounced into a single ingestion. Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDebounce, "debounce", "", "quiet period before ingesting (default 2s)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	cancel := engine.Subscribe(alertPrinter(cmd))
	defer cancel()

	cmd.Printf("감시 중: %v\n", args)
	w := watcher.New(engine, registry, defaultDuration(watchDebounce, watcher.DefaultDebounce))
	return w.Run(ctx, args)
}
