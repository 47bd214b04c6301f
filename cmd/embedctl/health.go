package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/embed-service/pkg/embedclient"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var serviceURL string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the embedding service is up and has its model loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := embedclient.New(serviceURL)
			if err != nil {
				return err
			}

			h, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "status=%s model_loaded=%t\n", h.Status, h.ModelLoaded)
			if !h.ModelLoaded {
				return fmt.Errorf("model is not loaded yet")
			}
			return nil
		},
	}

	serviceURLFlag(cmd, &serviceURL)

	return cmd
}
