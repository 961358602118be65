package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/sigdedup/pkg/db"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show status counts for a run (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			var run db.Run
			if len(args) == 1 {
				run, err = db.GetRun(cmd.Context(), conn, args[0])
			} else {
				run, err = db.LatestRun(cmd.Context(), conn)
			}
			if err != nil {
				return err
			}
			counts, err := db.StatusCounts(cmd.Context(), conn, run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			finished := "unfinished"
			if !run.FinishedAt.IsZero() {
				finished = run.FinishedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(out, "Run %s (started %s, finished %s)\n", run.ID, run.StartedAt.Local().Format(time.DateTime), finished)
			fmt.Fprintln(out, renderTable(
				[]string{"Records", "Keys", "Pairs", "Ingested pairs", "Ingested records", "Logged", "Review"},
				[][]string{{
					strconv.Itoa(run.Records), strconv.Itoa(run.Groups), strconv.Itoa(run.Pairs),
					strconv.Itoa(run.IngestedPairs), strconv.Itoa(run.IngestedRecords),
					strconv.Itoa(run.Logged), strconv.Itoa(run.Review),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			if len(counts) == 0 {
				fmt.Fprintln(out, "No pairs written.")
				return nil
			}
			rows := make([][]string, 0, len(counts))
			for _, c := range counts {
				rows = append(rows, []string{c.Table, c.Status, c.StatusCode, strconv.Itoa(c.Count)})
			}
			fmt.Fprintln(out, renderTable([]string{"Table", "Status", "Code", "Pairs"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}
