package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/songpeng/inferBind/internal/config"
	artifacts "github.com/songpeng/inferBind/internal/infrastructure/storage/minio"
	"github.com/songpeng/inferBind/pkg/errors"
)

// NewFetchCmd creates the fetch command, which downloads a published matrix,
// typically to serve as drugSub2proteinSubFileName of a prediction run.
func NewFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch OBJECT DEST",
		Short: "Download an artifact from the artifact store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg, err := cliCtx.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.Artifact.Enabled() {
				return errors.InvalidConfig(config.KeyArtifactEndpoint, "required by fetch")
			}
			store, err := artifacts.NewArtifactStore(minioConfig(cfg), cliCtx.Logger)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			if err := store.Fetch(ctx, args[0], args[1]); err != nil {
				return err
			}
			return PrintResult(cmd, fmt.Sprintf("fetched %s/%s to %s", store.Bucket(), args[0], args[1]))
		},
	}
}
