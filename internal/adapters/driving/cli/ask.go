package cli

import (
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/illusthaey/savinghaey/internal/adapters/driven/config/file"
	"github.com/illusthaey/savinghaey/internal/core/domain"
)

var (
	askStrict      bool
	askShowContext bool
	askModel       string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the corpus",
	Long: `Answers one question grounded in the ingested documents, streaming
the answer to stdout. The answer cites its evidence as [C#] references
and ends with a [출처] block listing the cited chunks.

Strict mode confines the answer to the retrieved evidence; when the
evidence is insufficient the model answers exactly
"자료에 근거가 없습니다." instead of guessing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStrict, "strict", false, "answer only from the retrieved evidence")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "list every retrieved chunk, not just the cited ones")
	askCmd.Flags().StringVar(&askModel, "model", "", "generation model id (default from config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	if !cmd.Flags().Changed("show-context") {
		askShowContext = configStore.GetBool(configfile.KeyAskShowContextDefault)
	}

	if !engine.GeneratorReady() {
		if err := engine.LoadGenerator(ctx, askModel); err != nil {
			return err
		}
	}

	// Stream the answer as it generates.
	cancel := engine.Subscribe(func(event domain.Event) {
		if delta, ok := event.(domain.MessageDeltaAppended); ok {
			cmd.Print(delta.Delta)
		}
	})
	defer cancel()

	err := engine.Ask(ctx, strings.Join(args, " "), domain.AskOptions{
		Strict:      askStrict,
		ShowContext: askShowContext,
	})
	if err != nil {
		return err
	}
	cmd.Println()

	transcript := engine.Transcript()
	printSources(cmd, transcript[len(transcript)-1].Meta)
	return nil
}
