package main

import (
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "multisig-server",
		Short:         "Multisig message server",
		Long:          "Provides a basic service for users to post and get multisig messages.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML file with retention overrides (watched for changes)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
