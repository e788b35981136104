package cli

import (
	"github.com/spf13/cobra"

	"github.com/illusthaey/savinghaey/internal/core/domain"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild every chunk embedding",
	Long: `Re-embeds every chunk from its stored text and persists the new
vectors. Needed after an import, or after switching to a different
embedding model.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	cancel := engine.Subscribe(func(event domain.Event) {
		if p, ok := event.(domain.ProgressChanged); ok {
			cmd.Printf("\r재인덱싱 중... %3.0f%%", p.Fraction*100)
		}
	})
	defer cancel()

	if err := engine.ReindexAll(ctx); err != nil {
		cmd.Println()
		return err
	}
	cmd.Printf("\r재인덱싱 완료: 청크 %d개      \n", engine.ChunkCount())
	return nil
}
