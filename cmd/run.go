package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/precall-audit/internal/model"
)

var (
	runName    string
	runCity    string
	runService string
	runWebsite string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pre-call audit for a single business",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputs := model.AuditInputs{
			BusinessName:   runName,
			City:           runCity,
			PrimaryService: runService,
			WebsiteURL:     runWebsite,
		}
		if err := validateInputs(inputs); err != nil {
			return err
		}

		env, err := initAudit(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.Runner.Run(ctx, inputs)
		if err != nil {
			return eris.Wrap(err, "audit run")
		}

		zap.L().Info("audit complete",
			zap.String("audit_id", report.AuditID),
			zap.String("resolution", string(report.ResolvedBusiness.ResolutionStatus)),
			zap.String("conclusion", report.SelectedConclusion.Conclusion),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return eris.Wrap(err, "encode report")
		}

		if report.ResolvedBusiness.ResolutionStatus != model.ResolutionFound {
			return eris.Errorf("business not resolved: %s", report.ResolvedBusiness.ResolutionStatus)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "business name (required)")
	runCmd.Flags().StringVar(&runCity, "city", "", "city (required)")
	runCmd.Flags().StringVar(&runService, "service", "", "primary service slug, e.g. termite_treatment (required)")
	runCmd.Flags().StringVar(&runWebsite, "website", "", "business website URL (required)")
	_ = runCmd.MarkFlagRequired("name")
	_ = runCmd.MarkFlagRequired("city")
	_ = runCmd.MarkFlagRequired("service")
	_ = runCmd.MarkFlagRequired("website")
	rootCmd.AddCommand(runCmd)
}
