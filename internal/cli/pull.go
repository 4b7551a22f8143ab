package cli

import (
	"context"

	"github.com/smallbiznis/atmn/internal/config"
	pulldomain "github.com/smallbiznis/atmn/internal/pull/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPullCommand(v *viper.Viper, streams Streams) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Update the config file from the remote catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			var svc pulldomain.Service
			prompter := NewPrompter(streams.In, streams.Err, streams.Interactive)
			return runApp(cmd.Context(), cfg, prompter, func(ctx context.Context) error {
				result, err := svc.Pull(ctx, pulldomain.Request{Path: cfg.ConfigPath, Force: force})
				if err != nil {
					return err
				}
				renderPull(cmd.OutOrStdout(), result)
				return nil
			}, &svc)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Regenerate the whole file instead of merging")
	return cmd
}
