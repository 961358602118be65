package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/sigdedup/pkg/db"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <records.csv>",
		Short: "Load person records from a CSV file",
		Long:  "Load person records from a CSV file with the header " + strings.Join(db.CSVColumns, ",") + ". Existing ids are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			conn, _, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := db.ImportCSV(cmd.Context(), conn, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", n, args[0])
			return nil
		},
	}
}
