// Command slotctl runs the extraction engine from a terminal, either on a
// single request or as an interactive booking conversation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wolfman30/flight-intent/cmd/mainconfig"
	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

var (
	logLevel string
	noNER    bool
	noLLM    bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Extract flight booking details from natural language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&noNER, "no-ner", false, "disable the named-entity location stage")
	root.PersistentFlags().BoolVar(&noLLM, "no-llm", false, "use the passenger rules only")
	root.AddCommand(newExtractCommand(), newChatCommand())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildExtractor wires the extractor from the environment and the global
// flags. The returned cleanup releases provider clients.
func buildExtractor(ctx context.Context) (*extraction.Extractor, func(), error) {
	cfg := appconfig.Load()
	if noNER {
		cfg.UseNER = false
	}
	if noLLM {
		cfg.LLMProvider = "none"
	}
	logger := logging.NewWithFormat(logLevel, "text", os.Stderr)
	client, cleanup, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	return mainconfig.NewExtractor(cfg, logger, client), cleanup, nil
}
