// Package cli wires the atmn commands.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/smallbiznis/atmn/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Streams are the terminal handles a command talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Interactive allows confirmation prompts.
	Interactive bool
}

// Execute runs the CLI against the process environment.
func Execute(ctx context.Context) error {
	home, _ := os.UserHomeDir()
	v, err := config.New(home)
	if err != nil {
		return err
	}
	streams := Streams{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	return NewRootCommand(v, streams).ExecuteContext(ctx)
}

func NewRootCommand(v *viper.Viper, streams Streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atmn",
		Short:         "Sync billing features and plans between autumn.config.ts and the remote catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	flags := cmd.PersistentFlags()
	flags.String("env", config.EnvSandbox, "Environment to sync with (sandbox, live)")
	flags.String("config", config.DefaultConfigPath, "Path to the config file")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", config.FormatAuto, "Log format (auto, json, console)")

	bindFlags(v, flags, map[string]string{
		"env":        "environment",
		"config":     "config_path",
		"log-level":  "log.level",
		"log-format": "log.format",
	})

	cmd.AddCommand(
		newPullCommand(v, streams),
		newPushCommand(v, streams),
		newNukeCommand(v, streams),
	)
	return cmd
}

// bindFlags maps flag names to config keys. A flag set on the command line
// wins over the environment and atmn.yaml.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}
