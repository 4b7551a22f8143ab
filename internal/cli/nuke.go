package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/atmn/internal/config"
	customerdomain "github.com/smallbiznis/atmn/internal/customer/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	ErrNukeLive     = errors.New("nuke_not_allowed_in_live")
	ErrNukeDeclined = errors.New("nuke_declined")
)

func newNukeCommand(v *viper.Viper, streams Streams) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "nuke",
		Short: "Delete every customer in the sandbox environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cfg.IsLive() {
				return ErrNukeLive
			}

			var svc customerdomain.Service
			prompter := NewPrompter(streams.In, streams.Err, streams.Interactive)
			return runApp(cmd.Context(), cfg, prompter, func(ctx context.Context) error {
				customers, err := svc.ListAll(ctx)
				if err != nil {
					return err
				}
				if len(customers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), styles.muted.Render("No customers to delete"))
					return nil
				}

				if !yes {
					ok, err := prompter.ConfirmNuke(ctx, len(customers))
					if err != nil {
						return err
					}
					if !ok {
						return ErrNukeDeclined
					}
				}

				result, err := svc.DeleteAll(ctx, customers)
				renderNuke(cmd.OutOrStdout(), result)
				if err != nil {
					return err
				}
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d of %d customer deletions failed", len(result.Failed), len(customers))
				}
				return nil
			}, &svc)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
