package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List ingested documents",
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if err := initEngine(cmd.Context()); err != nil {
		return err
	}

	docs := engine.Documents()

	if docsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("추가된 문서가 없습니다.")
		return nil
	}

	for i, doc := range docs {
		cmd.Printf("  [%d] %s (%s, %s)\n", i+1, doc.Name, doc.MimeType, humanSize(doc.SizeBytes))
		cmd.Printf("      추가: %s\n", doc.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	cmd.Printf("\n문서 %d개, 청크 %d개\n", len(docs), engine.ChunkCount())
	return nil
}
