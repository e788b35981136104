package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

// alertPrinter forwards engine alerts to the command's error stream so
// per-file ingestion failures stay visible in non-interactive runs.
func alertPrinter(cmd *cobra.Command) func(domain.Event) {
	return func(event domain.Event) {
		if alert, ok := event.(domain.AlertRaised); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "경고: %s\n", alert.Text)
		}
	}
}

// printSources renders the [출처] block under an answer: one line per
// source with its citation label, document, page and score.
func printSources(cmd *cobra.Command, meta *domain.AnswerMeta) {
	if meta == nil {
		return
	}
	if meta.Warning != "" {
		cmd.Printf("\n%s\n", meta.Warning)
	}
	if len(meta.Sources) == 0 {
		return
	}

	cmd.Println("\n[출처]")
	for _, src := range meta.Sources {
		marker := " "
		if src.Used {
			marker = "*"
		}
		cmd.Printf("  %s %s %s p.%d (%.3f)\n", marker, src.Label(), src.DocName, src.Page, src.Score)
	}
}

// humanSize renders a byte count the way directory listings do.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
