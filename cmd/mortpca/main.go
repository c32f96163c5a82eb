package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mortpca/domain/mortality"
	"mortpca/internal/config"
	apperrors "mortpca/internal/errors"
	"mortpca/internal/logger"
	"mortpca/internal/pipeline"
	"mortpca/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mortpca",
		Short:         "Principal components of elderly weekly mortality rates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newBandsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", apperrors.GetCode(err), err)
		stop()
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "run [mortality-file] [population-file]",
		Short: "Compute rates, decompose them and write the report",
		Long: `Load weekly deaths by age band and population by single year of age,
compute mortality rates per 100,000, standardize the date x age band matrix
and extract two principal components.

Inputs are CSV or XLSX. Paths may be given as arguments or through
MORTALITY_FILE and POPULATION_FILE (environment or .env).

Example: mortpca run fixed.csv leeftijdsopbouw.csv --out report`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				overrides.MortalityFile = args[0]
			}
			if len(args) > 1 {
				overrides.PopulationFile = args[1]
			}
			return runPipeline(cmd.Context(), overrides)
		},
	}

	cmd.Flags().StringVar(&overrides.OutputDir, "out", "", "Report directory (default from OUTPUT_DIR)")
	cmd.Flags().StringVar(&overrides.EnvFile, "env-file", "", "Environment file to load instead of .env")

	return cmd
}

func runPipeline(ctx context.Context, overrides config.Overrides) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("create logger: %w", err))
	}
	defer log.Sync()

	res, err := pipeline.New(cfg, log).Run(ctx)
	if err != nil {
		log.Error("run failed", zap.String("code", apperrors.GetCode(err)), zap.Error(err))
		return err
	}

	fmt.Printf("Run %s finished in %v\n", res.RunID, res.Elapsed)
	for c, ratio := range res.Analysis.Result.ExplainedVarianceRatio {
		fmt.Printf("  %-32s %6.2f%% of variance\n", report.ComponentName(c), ratio*100)
	}
	fmt.Printf("Scores chart:   %s\n", res.Report.ScoresChart)
	fmt.Printf("Loadings chart: %s\n", res.Report.LoadingsChart)
	fmt.Printf("Workbook:       %s\n", res.Report.Workbook)
	fmt.Printf("Summary:        %s\n", res.Report.Summary)
	return nil
}

func newBandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bands",
		Short: "List the recognized age bands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range mortality.Ranges() {
				ages := fmt.Sprintf("%d-%d", r.MinAge, r.MaxAge)
				if r.Band == mortality.Band90Plus {
					ages = fmt.Sprintf("%d+", r.MinAge)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.Band, ages)
			}
		},
	}
}
