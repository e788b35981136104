package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document and chunk",
	Long: `Empties the corpus: all documents, chunks and the transcript are
removed. Asks for confirmation when run interactively; pass --yes to
skip the prompt.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if err := initEngine(cmd.Context()); err != nil {
		return err
	}

	docs := len(engine.Documents())
	if docs == 0 {
		cmd.Println("삭제할 자료가 없습니다.")
		return nil
	}

	if !clearYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			cmd.PrintErrln("비대화형 실행에서는 --yes 플래그가 필요합니다.")
			return nil
		}
		cmd.Printf("문서 %d개와 모든 청크를 삭제합니다. 계속할까요? [y/N] ", docs)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			cmd.Println("취소되었습니다.")
			return nil
		}
	}

	if err := engine.ClearAll(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("모든 자료가 삭제되었습니다.")
	return nil
}
