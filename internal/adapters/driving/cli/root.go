package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/illusthaey/savinghaey/internal/adapters/driven/config/file"
	openaiemb "github.com/illusthaey/savinghaey/internal/adapters/driven/embedding/openai"
	openaigen "github.com/illusthaey/savinghaey/internal/adapters/driven/generation/openai"
	"github.com/illusthaey/savinghaey/internal/adapters/driven/storage/sqlite"
	"github.com/illusthaey/savinghaey/internal/adapters/driven/vector/brute"
	"github.com/illusthaey/savinghaey/internal/chunker"
	"github.com/illusthaey/savinghaey/internal/core/services"
	"github.com/illusthaey/savinghaey/internal/extractors"
	"github.com/illusthaey/savinghaey/internal/logger"
)

var version = "dev"

// Global flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// Wired dependencies, built lazily by initEngine. Commands that talk to
// the corpus call initEngine first; lightweight commands (version) skip
// the wiring entirely.
var (
	engine      *services.Engine
	configStore *configfile.ConfigStore
	registry    *extractors.Registry
	store       *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "savinghaey",
	Short: "Local question answering over your own documents",
	Long: `savinghaey ingests PDF and text files into a local corpus and answers
questions about them in Korean, grounded in the ingested material with
[C#] citations. Everything runs on your machine: embeddings and answers
come from locally hosted OpenAI-compatible runtimes and the corpus
lives in a local SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.savinghaey)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "database directory (default ~/.savinghaey/data)")
}

// Execute runs the root command. Called once from main.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeResources()
	return rootCmd.Execute()
}

// envOr returns the SAVINGHAEY_* environment override for a config key,
// falling back to the given value. "embedding.base_url" maps to
// SAVINGHAEY_EMBEDDING_BASE_URL.
func envOr(key, fallback string) string {
	envKey := "SAVINGHAEY_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// envOrInt is envOr for integer keys.
func envOrInt(key string, fallback int) int {
	if v := envOr(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// initEngine wires the full dependency graph: config, stores, model
// runtimes, extractors and the engine itself. Idempotent.
func initEngine(ctx context.Context) error {
	if engine != nil {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = envOr(configfile.KeyDataDir, configStore.GetString(configfile.KeyDataDir))
	}
	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening corpus database: %w", err)
	}

	embedder := openaiemb.NewEmbedder(openaiemb.Config{
		BaseURL:     envOr(configfile.KeyEmbeddingBaseURL, configStore.GetString(configfile.KeyEmbeddingBaseURL)),
		FallbackURL: envOr(configfile.KeyEmbeddingFallbackURL, configStore.GetString(configfile.KeyEmbeddingFallbackURL)),
		Model:       envOr(configfile.KeyEmbeddingModel, configStore.GetString(configfile.KeyEmbeddingModel)),
		APIKey:      envOr(configfile.KeyEmbeddingAPIKey, configStore.GetString(configfile.KeyEmbeddingAPIKey)),
	})

	generator := openaigen.NewGenerator(openaigen.Config{
		BaseURL:   envOr(configfile.KeyGenerationBaseURL, configStore.GetString(configfile.KeyGenerationBaseURL)),
		Model:     envOr(configfile.KeyGenerationModel, configStore.GetString(configfile.KeyGenerationModel)),
		APIKey:    envOr(configfile.KeyGenerationAPIKey, configStore.GetString(configfile.KeyGenerationAPIKey)),
		MaxTokens: envOrInt(configfile.KeyGenerationMaxTokens, configStore.GetInt(configfile.KeyGenerationMaxTokens)),
	})

	registry = extractors.Default()

	var chunkOpts []chunker.Option
	if size := envOrInt(configfile.KeyChunkSize, configStore.GetInt(configfile.KeyChunkSize)); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := envOrInt(configfile.KeyChunkOverlap, configStore.GetInt(configfile.KeyChunkOverlap)); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	ck := chunker.New(chunkOpts...)

	engine = services.NewEngine(store, embedder, generator, brute.New(), registry, ck, services.Options{
		TopK:      envOrInt(configfile.KeyRetrieveTopK, configStore.GetInt(configfile.KeyRetrieveTopK)),
		MaxTokens: envOrInt(configfile.KeyGenerationMaxTokens, configStore.GetInt(configfile.KeyGenerationMaxTokens)),
	})

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	} else {
		engine.SetPromptStore(prompts)
	}

	if err := engine.LoadFromStore(ctx); err != nil {
		return err
	}
	return nil
}

// closeResources releases the database handle after the command ran.
func closeResources() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("Closing corpus database: %v", err)
		}
	}
}

// defaultDuration parses a duration flag value with a fallback.
func defaultDuration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
