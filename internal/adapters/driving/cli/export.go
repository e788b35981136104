package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus as a JSON archive",
	Long: `Writes the corpus (documents and chunk texts, without embedding
vectors) as a portable JSON archive to stdout or the file given with
-o. Import the archive on another machine and run reindex to rebuild
the vectors there.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the archive to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := engine.Export(ctx, w); err != nil {
		return err
	}
	if exportOutput != "" {
		cmd.Printf("내보내기 완료: %s\n", exportOutput)
	}
	return nil
}
