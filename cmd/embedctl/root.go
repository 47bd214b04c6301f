package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/embed-service/pkg/config/env"
	"github.com/spf13/cobra"
)

const defaultServiceURL = "http://localhost:8000"

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "embedctl",
		Short: "Tools around the embedding service",
		Long: `embedctl prepares Elasticsearch bulk files and talks to a running embedding service.

Examples:
  embedctl bulk --input regulation.json --output bulk.json --index t_regulation
  embedctl bulk --config job.yaml --push
  embedctl encode "first text" "second text"
  embedctl health --url http://localhost:8000`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := env.LoadDotEnv(os.Getenv("ENV"), ".env"); err != nil {
				return err
			}
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newBulkCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newHealthCmd())

	return root
}

// serviceURLFlag registers --url, defaulting to EMBED_SERVICE_URL.
func serviceURLFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "url", env.String(defaultServiceURL, "EMBED_SERVICE_URL"), "Embedding service base URL")
}
