package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/illusthaey/savinghaey/internal/adapters/driven/config/file"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and runtime status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := initEngine(cmd.Context()); err != nil {
		return err
	}

	readiness := func(ready bool) string {
		if ready {
			return "준비됨"
		}
		return "미로드"
	}

	cmd.Printf("문서:        %d개\n", len(engine.Documents()))
	cmd.Printf("청크:        %d개\n", engine.ChunkCount())
	cmd.Printf("임베딩 모델: %s\n", readiness(engine.EmbedderReady()))
	cmd.Printf("생성 모델:   %s\n", readiness(engine.GeneratorReady()))
	cmd.Printf("설정 파일:   %s\n", configStore.Path())
	cmd.Printf("데이터베이스: %s\n", store.Path())

	if url := configStore.GetString(configfile.KeyEmbeddingBaseURL); url != "" {
		cmd.Printf("임베딩 엔드포인트: %s\n", url)
	}
	if url := configStore.GetString(configfile.KeyGenerationBaseURL); url != "" {
		cmd.Printf("생성 엔드포인트:   %s\n", url)
	}
	return nil
}
