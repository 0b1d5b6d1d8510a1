package main

import (
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"uk.co.dudmesh.multisig/internal/boot"
	"uk.co.dudmesh.multisig/internal/service/messages"
)

func newSweepCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single retention sweep against the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			bootConfig, err := boot.Load(opts.configFile)
			if err != nil {
				return fmt.Errorf("boot: %w", err)
			}
			log.SetLevel(bootConfig.Level())

			messageService, err := messages.New(bootConfig)
			if err != nil {
				return fmt.Errorf("creating message service: %w", err)
			}
			defer messageService.Close()

			res, err := messageService.Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweeping: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d addresses, pruned %d messages, removed %d addresses\n",
				res.Addresses, res.PrunedMessages, res.RemovedAddresses)
			return nil
		},
	}
}

func newPurgeCommand(opts *rootOptions) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to purge without --yes")
			}

			bootConfig, err := boot.Load(opts.configFile)
			if err != nil {
				return fmt.Errorf("boot: %w", err)
			}

			messageService, err := messages.New(bootConfig)
			if err != nil {
				return fmt.Errorf("creating message service: %w", err)
			}
			defer messageService.Close()

			if err := messageService.Purge(cmd.Context()); err != nil {
				return fmt.Errorf("purging: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all messages deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm deletion of all messages")
	return cmd
}
