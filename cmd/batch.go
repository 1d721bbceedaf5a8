package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/triage-cli/internal/intake"
	"github.com/sells-group/triage-cli/internal/model"
	"github.com/sells-group/triage-cli/internal/monitoring"
	"github.com/sells-group/triage-cli/internal/triage"
)

var (
	batchInput       string
	batchOutput      string
	batchLimit       int
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Triage requests from a CSV or JSON Lines file",
	Long:  "Reads requests from a .csv or .jsonl file, triages them concurrently, and writes one ticket per line to the output file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrent = batchConcurrency
		}
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		env, err := newEngine(cfg.Triage)
		if err != nil {
			return err
		}

		records, err := intake.ReadFile(batchInput)
		if err != nil {
			return eris.Wrap(err, "batch: read input")
		}

		f, err := os.Create(batchOutput)
		if err != nil {
			return eris.Wrap(err, "batch: create output")
		}
		defer f.Close()

		res, err := processBatch(ctx, records, batchLimit, cfg.Batch.MaxConcurrent, env.Assembler, f)
		if err != nil {
			return err
		}

		snap := monitoring.Summarize(res.Tickets)
		zap.L().Info("batch summary",
			zap.String("output", batchOutput),
			zap.Int("tickets", snap.Total),
			zap.Int("skipped", res.Skipped),
			zap.Float64("human_review_rate", snap.HumanReviewRate),
			zap.Float64("unknown_rate", snap.UnknownRate),
			zap.Float64("avg_confidence", snap.AvgConfidence),
			zap.Any("by_destination", snap.ByDestination),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input file (.csv, .jsonl or .ndjson)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "tickets.jsonl", "output JSON Lines file")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of records to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent workers (default from config)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// batchResult holds the tickets produced by a batch, in input order.
type batchResult struct {
	Tickets []model.TicketRecord
	Skipped int
}

// processBatch applies limit, triages records concurrently, and writes the
// tickets to w as JSON Lines in input order. Records that fail intake
// validation are logged and skipped.
func processBatch(ctx context.Context, records []intake.Record, limit, concurrency int, asm *triage.Assembler, w io.Writer) (*batchResult, error) {
	if len(records) == 0 {
		zap.L().Info("no records found")
		return &batchResult{}, nil
	}

	// Apply limit
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("records", len(records)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, skipped atomic.Int64
	slots := make([]*model.TicketRecord, len(records))

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			log := zap.L().With(zap.Int("line", rec.Line), zap.String("request_id", rec.RequestID))

			req, err := asm.NewIntake(rec.RequestID, rec.EmployeeName, rec.Department, rec.UrgencyValue(), rec.Message)
			if err != nil {
				skipped.Add(1)
				log.Warn("skipping invalid record", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			ticket := asm.Triage(req)
			slots[i] = &ticket
			succeeded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	res := &batchResult{
		Tickets: make([]model.TicketRecord, 0, succeeded.Load()),
		Skipped: int(skipped.Load()),
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, t := range slots {
		if t == nil {
			continue
		}
		if err := enc.Encode(t); err != nil {
			return nil, eris.Wrap(err, "batch: write ticket")
		}
		res.Tickets = append(res.Tickets, *t)
	}
	if err := bw.Flush(); err != nil {
		return nil, eris.Wrap(err, "batch: flush output")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("skipped", skipped.Load()),
	)
	return res, nil
}
