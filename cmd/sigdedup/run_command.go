package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/japaniel/sigdedup/pkg/config"
	"github.com/japaniel/sigdedup/pkg/db"
	"github.com/japaniel/sigdedup/pkg/dictionary"
	"github.com/japaniel/sigdedup/pkg/identity"
	"github.com/japaniel/sigdedup/pkg/ingest"
	"github.com/japaniel/sigdedup/pkg/logging"
	"github.com/japaniel/sigdedup/pkg/resolve"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Resolve the imported records and write ingestion and log tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			lock, err := db.AcquireRunLock(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer lock.Release()

			conn, _, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			builder, err := newSignatureBuilder(cfg.Normalize)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			started := time.Now()
			if err := db.CreateRun(cmd.Context(), conn, runID, started); err != nil {
				return err
			}
			logger = logger.With("run_id", runID)

			sink := db.NewResultSink(conn, runID, cfg.Database.BatchSize, cfg.Database.FlushInterval())
			ig := &ingest.Ingester{
				Source:  &db.RecordSource{DB: conn},
				Sink:    sink,
				Builder: builder,
				Resolver: resolve.NewResolver(
					resolve.Weights{Jaccard: cfg.Scoring.JaccardWeight, Edit: cfg.Scoring.EditWeight},
					resolve.Thresholds{Match: cfg.Classify.MatchThreshold, Low: cfg.Classify.LowThreshold},
				),
				Workers:          cfg.Pipeline.Workers,
				OnProgress:       groupProgress(cmd.ErrOrStderr()),
				Logger:           logging.NewComponentLogger(logger, "ingest"),
				RouteReviewToLog: cfg.Routing.RouteReviewToLog,
			}

			report, runErr := ig.Run(cmd.Context())
			if err := errors.Join(runErr, sink.Close()); err != nil {
				return fmt.Errorf("run %s: %w", runID, err)
			}

			err = db.FinishRun(cmd.Context(), conn, db.Run{
				ID:                 runID,
				FinishedAt:         time.Now(),
				Records:            report.Records,
				Groups:             report.Groups,
				Pairs:              report.Pairs,
				IngestedPairs:      report.IngestedPairs,
				IngestedRecords:    report.IngestedRecords,
				Logged:             report.Logged,
				Review:             report.Review,
				ExactDuplicateKeys: report.ExactDuplicateKeys,
			})
			if err != nil {
				return err
			}
			logger.Info("run finished", "elapsed", time.Since(started).Round(time.Millisecond))

			printRunSummary(cmd.OutOrStdout(), runID, report)
			return nil
		},
	}
}

func newSignatureBuilder(cfg config.NormalizeConfig) (*identity.SignatureBuilder, error) {
	idx, err := dictionary.NewIndexFromFile(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}
	var connectors []string
	if len(cfg.Connectors) > 0 {
		connectors = cfg.Connectors
	}
	n := identity.NewNormalizer(identity.NormalizerOptions{
		Language:    cfg.Language,
		Connectors:  connectors,
		FoldAccents: cfg.FoldAccents,
		Lexicons:    idx,
	})
	return identity.NewSignatureBuilder(n), nil
}

func printRunSummary(w io.Writer, runID string, r ingest.Report) {
	fmt.Fprintf(w, "Run %s\n", runID)
	rows := [][]string{
		{"records", strconv.Itoa(r.Records)},
		{"keys", strconv.Itoa(r.Groups)},
		{"pairs", strconv.Itoa(r.Pairs)},
		{"ingested pairs", strconv.Itoa(r.IngestedPairs)},
		{"ingested records", strconv.Itoa(r.IngestedRecords)},
		{"logged", strconv.Itoa(r.Logged)},
		{"review", strconv.Itoa(r.Review)},
		{"exact duplicate keys", strconv.Itoa(r.ExactDuplicateKeys)},
	}
	fmt.Fprintln(w, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	var statusRows [][]string
	for _, s := range resolve.Statuses() {
		if n := r.StatusCounts[s]; n > 0 {
			statusRows = append(statusRows, []string{s.String(), s.Code(), strconv.Itoa(n)})
		}
	}
	if len(statusRows) > 0 {
		fmt.Fprintln(w, renderTable([]string{"Status", "Code", "Pairs"}, statusRows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	}
}
