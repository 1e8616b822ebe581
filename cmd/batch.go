package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/precall-audit/internal/audit"
	"github.com/sells-group/precall-audit/internal/model"
)

var (
	batchFile  string
	batchOut   string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run audits for a CSV of businesses",
	Long:  "Reads a CSV with business_name, city, primary_service, website_url columns and runs an audit per row, writing one JSON report per audit to the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rows, err := readBatchFile(batchFile)
		if err != nil {
			return err
		}

		env, err := initAudit(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := os.MkdirAll(batchOut, 0o755); err != nil {
			return eris.Wrap(err, "create output dir")
		}

		return processBatch(ctx, rows, batchLimit, cfg.Batch.MaxConcurrentAudits, batchOut, env.Runner.Run)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "input CSV path (required)")
	batchCmd.Flags().StringVar(&batchOut, "out", "audits", "output directory for report JSON files")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max rows to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// readBatchFile parses the input CSV. The header row names the columns;
// order does not matter.
func readBatchFile(path string) ([]model.AuditInputs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open batch file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"business_name", "city", "primary_service", "website_url"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("batch file missing column %q", required)
		}
	}

	var rows []model.AuditInputs
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read csv row")
		}
		rows = append(rows, model.AuditInputs{
			BusinessName:   strings.TrimSpace(record[col["business_name"]]),
			City:           strings.TrimSpace(record[col["city"]]),
			PrimaryService: strings.TrimSpace(record[col["primary_service"]]),
			WebsiteURL:     strings.TrimSpace(record[col["website_url"]]),
		})
	}
	return rows, nil
}

// auditFunc is the callback signature for running one audit.
type auditFunc func(ctx context.Context, inputs model.AuditInputs) (*model.AuditReport, error)

// processBatch applies limit, then runs audits concurrently. Individual
// failures are logged and counted; they never abort the batch.
func processBatch(ctx context.Context, rows []model.AuditInputs, limit, concurrency int, outDir string, run auditFunc) error {
	if len(rows) == 0 {
		zap.L().Info("no rows to process")
		return nil
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("rows", len(rows)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, inputs := range rows {
		g.Go(func() error {
			log := zap.L().With(
				zap.String("business", inputs.BusinessName),
				zap.String("city", inputs.City),
			)

			if err := validateInputs(inputs); err != nil {
				failed.Add(1)
				log.Error("invalid row", zap.Error(err))
				return nil
			}

			report, err := run(gctx, inputs)
			if err != nil {
				failed.Add(1)
				log.Error("audit failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if err := writeReport(outDir, report); err != nil {
				failed.Add(1)
				log.Error("write report", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("audit complete",
				zap.String("audit_id", report.AuditID),
				zap.String("conclusion", report.SelectedConclusion.Conclusion),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func writeReport(outDir string, report *model.AuditReport) error {
	name := report.AuditID
	if name == "" {
		name = audit.CacheKey(report.Inputs)
	}
	path := filepath.Join(outDir, fmt.Sprintf("%s.json", name))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write report file")
	}
	return nil
}
