package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
	"github.com/chalktalk/chalktalk/pkg/llm"
)

var (
	verbose     bool
	contextName string
	modelName   string

	globalConfig  *cli.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "chalktalk",
	Short: "Ask questions, get narrated 2D chalkboard animations",
	Long: `chalktalk - explanations drawn as animated 2D scenes.

A question goes to a generation backend (OpenAI-compatible or Gemini),
which produces a spoken-style explanation plus a declarative scene.
The scene plays back as a timeline of animated shapes: in the terminal,
as SVG frames, or streamed live to connected viewers.

Backend credentials live in ~/.chalktalk/config.yaml as named contexts:

  chalktalk config add work --backend openai --api-key KEY --model gpt-4o-mini
  chalktalk config use work

  chalktalk serve --addr :8080
  chalktalk ask "Why is the sky blue?"
  chalktalk play --scene scene.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "backend context to use")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "override the context's model")
}

func initConfig() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		// Deferred so context-free commands like 'version' still work.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// getConfig returns the loaded configuration, surfacing a load failure.
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := cli.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// resolveBackend builds a generator from the selected context.
func resolveBackend(ctx context.Context) (llm.Generator, *cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	bc, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, nil, err
	}
	if modelName != "" {
		override := *bc
		override.Model = modelName
		bc = &override
	}
	if err := bc.Validate(); err != nil {
		return nil, nil, err
	}
	switch bc.Backend {
	case cli.BackendGemini:
		gen, err := llm.NewGemini(ctx, bc.APIKey, bc.Model)
		if err != nil {
			return nil, nil, err
		}
		return gen, bc, nil
	default:
		return llm.NewOpenAI(bc.APIKey, bc.BaseURL, bc.Model), bc, nil
	}
}
