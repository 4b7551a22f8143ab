package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/atmn/internal/config"
	pushdomain "github.com/smallbiznis/atmn/internal/push/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrInvalidOutput = errors.New("invalid_output_format")

func newPushCommand(v *viper.Viper, streams Streams) *cobra.Command {
	var (
		yes    bool
		dryRun bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push local features and plans to the remote catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case OutputText, OutputJSON, OutputYAML:
			default:
				return fmt.Errorf("%w: %q", ErrInvalidOutput, output)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			var svc pushdomain.Service
			prompter := NewPrompter(streams.In, streams.Err, streams.Interactive)
			return runApp(cmd.Context(), cfg, prompter, func(ctx context.Context) error {
				result, err := svc.Push(ctx, pushdomain.Request{Path: cfg.ConfigPath, Yes: yes, DryRun: dryRun})
				if result != nil {
					if output == OutputText {
						renderPush(cmd.OutOrStdout(), result, cfg.Environment)
					} else if werr := writeStructured(cmd.OutOrStdout(), result, output); werr != nil && err == nil {
						err = werr
					}
				}
				return err
			}, &svc)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&yes, "yes", "y", false, "Approve deletions, archives and plan versions without asking")
	flags.BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	flags.StringVarP(&output, "output", "o", OutputText, "Output format (text, json, yaml)")
	return cmd
}
