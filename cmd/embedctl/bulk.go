package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/embed-service/internal/bulk"
	"github.com/DjordjeVuckovic/embed-service/internal/storage/es"
	"github.com/spf13/cobra"
)

type bulkOptions struct {
	job        bulk.Job
	configPath string
	push       bool

	esAddresses []string
	esUsername  string
	esPassword  string
}

func newBulkCmd() *cobra.Command {
	opts := &bulkOptions{job: bulk.DefaultJob()}

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Convert a JSON array into an Elasticsearch bulk file",
		Long: `Read a JSON array of documents and write a newline-delimited bulk file where
every document is preceded by an index action line.

With --push the documents are also sent to Elasticsearch through the bulk API.
Connection settings fall back to ES_ADDRESSES, ES_USERNAME and ES_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.job.Input, "input", bulk.DefaultInput, "JSON array input file")
	f.StringVar(&opts.job.Output, "output", bulk.DefaultOutput, "Bulk NDJSON output file")
	f.StringVar(&opts.job.Index, "index", bulk.DefaultIndex, "Target index name")
	f.StringVar(&opts.configPath, "config", "", "YAML job file (flags set explicitly take precedence)")
	f.BoolVar(&opts.push, "push", false, "Also index the documents into Elasticsearch")
	f.StringSliceVar(&opts.esAddresses, "es-addresses", nil, "Elasticsearch addresses")
	f.StringVar(&opts.esUsername, "es-username", "", "Elasticsearch username")
	f.StringVar(&opts.esPassword, "es-password", "", "Elasticsearch password")

	return cmd
}

func runBulk(cmd *cobra.Command, opts *bulkOptions) error {
	job, err := resolveJob(cmd, opts)
	if err != nil {
		return err
	}

	slog.Debug("Converting", "input", job.Input, "output", job.Output, "index", job.Index)

	n, err := job.Run()
	if err != nil {
		return fmt.Errorf("bulk conversion failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, job.Output)

	if !opts.push {
		return nil
	}
	return pushJob(cmd, opts, job)
}

// resolveJob layers defaults, the optional job file and explicitly set flags.
func resolveJob(cmd *cobra.Command, opts *bulkOptions) (bulk.Job, error) {
	if opts.configPath == "" {
		return opts.job, nil
	}

	job, err := bulk.LoadJob(opts.configPath)
	if err != nil {
		return job, err
	}

	f := cmd.Flags()
	if f.Changed("input") {
		job.Input = opts.job.Input
	}
	if f.Changed("output") {
		job.Output = opts.job.Output
	}
	if f.Changed("index") {
		job.Index = opts.job.Index
	}
	return job, nil
}

func pushJob(cmd *cobra.Command, opts *bulkOptions, job bulk.Job) error {
	cfg := es.LoadClientConfigFromEnv(job.Index)
	if len(opts.esAddresses) > 0 {
		cfg.Addresses = opts.esAddresses
	}
	if opts.esUsername != "" {
		cfg.Username = opts.esUsername
	}
	if opts.esPassword != "" {
		cfg.Password = opts.esPassword
	}

	loader, err := es.NewLoader(cfg)
	if err != nil {
		return err
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	stats, err := loader.Load(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("push to elasticsearch failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d of %d records into %s\n", stats.Successful, stats.Total, job.Index)
	return nil
}
