package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importReindex bool

var importCmd = &cobra.Command{
	Use:   "import [archive.json]",
	Short: "Replace the corpus with a JSON archive",
	Long: `Replaces the entire corpus with the given archive (or stdin when no
file is given). The archive is validated before anything is deleted; a
malformed archive leaves the existing corpus untouched.

Archives carry no embedding vectors, so the imported corpus cannot
answer questions until it is re-indexed. Pass --reindex to rebuild the
vectors immediately after the import.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReindex, "reindex", false, "rebuild embeddings right after importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	if err := engine.Import(ctx, r); err != nil {
		return err
	}
	cmd.Printf("가져오기 완료: 문서 %d개, 청크 %d개\n", len(engine.Documents()), engine.ChunkCount())

	if importReindex {
		if err := engine.ReindexAll(ctx); err != nil {
			return err
		}
		cmd.Println("재인덱싱 완료")
		return nil
	}

	cmd.Println("임베딩을 다시 만들려면 `savinghaey reindex`를 실행하십시오.")
	return nil
}
