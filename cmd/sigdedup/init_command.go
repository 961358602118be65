package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/sigdedup/pkg/config"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var samplePath string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samplePath != "" {
				if err := config.CreateSample(samplePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", samplePath)
			}
			conn, cfg, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", cfg.Database.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&samplePath, "write-config", "", "Also write a sample configuration file to this path")
	return cmd
}
