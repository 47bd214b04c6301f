package main

import (
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/embed-service/pkg/embedclient"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var (
		serviceURL string
		single     bool
	)

	cmd := &cobra.Command{
		Use:   "encode TEXT...",
		Short: "Encode texts with a running embedding service",
		Long: `Send the given texts to the service and print the vectors as JSON.

With --single exactly one text is sent to /vectorize-single and the response
includes the vector dimension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := embedclient.New(serviceURL)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if single {
				if len(args) != 1 {
					return fmt.Errorf("--single takes exactly one text, got %d", len(args))
				}
				res, err := client.VectorizeSingle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return enc.Encode(res)
			}

			vectors, err := client.Encode(cmd.Context(), args)
			if err != nil {
				return err
			}
			return enc.Encode(vectors)
		},
	}

	serviceURLFlag(cmd, &serviceURL)
	cmd.Flags().BoolVar(&single, "single", false, "Use /vectorize-single for one text")

	return cmd
}
