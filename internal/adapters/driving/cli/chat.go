package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/illusthaey/savinghaey/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Opens the full-screen chat interface. Answers stream in as they
generate, with their evidence listed underneath. Slash commands:
  /strict   toggle strict grounding
  /context  toggle listing every retrieved chunk
  /clear    delete the whole corpus
  /quit     leave the chat`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("chat requires an interactive terminal")
	}

	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	return tui.Run(ctx, engine)
}
