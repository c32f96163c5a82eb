// Package pipeline runs load, rate, pivot, decomposition and report stages
// in order.
package pipeline

import (
	"context"
	"time"

	"mortpca/adapters/excel"
	"mortpca/domain/core"
	"mortpca/domain/mortality"
	"mortpca/internal/config"
	"mortpca/internal/decompose"
	apperrors "mortpca/internal/errors"
	"mortpca/internal/loader"
	"mortpca/internal/matrix"
	"mortpca/internal/profiling"
	"mortpca/internal/rates"
	"mortpca/internal/report"
	"mortpca/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls the analysis stages
type Options struct {
	Matrix     matrix.Options
	Components int
}

// Analysis is the output of every stage before reporting.
type Analysis struct {
	Mortality    []mortality.MortalityRecord
	Population   mortality.PopulationAggregate
	Rated        []mortality.RatedRecord
	Matrix       *mortality.MortalityMatrix
	Profiles     []profiling.BandProfile
	Standardized *decompose.Standardized
	Result       *mortality.DecompositionResult
}

// Result is a finished run
type Result struct {
	RunID    core.RunID
	Analysis *Analysis
	Report   *report.Output
	Elapsed  time.Duration
}

// Pipeline wires configuration to the stages.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a pipeline
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes the configured analysis and writes the report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := core.NewRunID()
	log := p.logger.With(zap.String("run_id", runID.String()))
	log.Info("run started",
		zap.String("mortality_file", p.cfg.Data.MortalityFile),
		zap.String("population_file", p.cfg.Data.PopulationFile),
	)

	readerLog := log.Named("reader")
	mortSrc := excel.NewDataReader(p.cfg.Data.MortalityFile, excel.WithLogger(readerLog))
	popSrc := excel.NewDataReader(p.cfg.Data.PopulationFile, excel.WithLogger(readerLog))

	analysis, err := Analyze(ctx, mortSrc, popSrc, Options{
		Matrix:     matrix.Options{Duplicates: matrix.DuplicatePolicy(p.cfg.Analysis.DuplicatePolicy)},
		Components: p.cfg.Analysis.Components,
	}, log)
	if err != nil {
		return nil, err
	}

	out, err := report.NewReporter(p.cfg.Data.OutputDir, log.Named("report")).Write(report.Input{
		RunID:          runID,
		MortalityFile:  p.cfg.Data.MortalityFile,
		PopulationFile: p.cfg.Data.PopulationFile,
		Matrix:         analysis.Matrix,
		Profiles:       analysis.Profiles,
		Standardized:   analysis.Standardized,
		Result:         analysis.Result,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "report")
	}

	elapsed := time.Since(start)
	log.Info("run finished", zap.Duration("elapsed", elapsed))
	return &Result{RunID: runID, Analysis: analysis, Report: out, Elapsed: elapsed}, nil
}

// Analyze runs every stage up to and including the decomposition. The two
// loaders read concurrently; the remaining stages run in sequence.
func Analyze(ctx context.Context, mortSrc, popSrc ports.TableReader, opts Options, log *zap.Logger) (*Analysis, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Components == 0 {
		opts.Components = decompose.DefaultComponents
	}

	var (
		records   []mortality.MortalityRecord
		popRows   []mortality.PopulationRecord
		mortStats loader.LoadReport
		popStats  loader.LoadReport
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		records, mortStats, err = loader.LoadMortality(mortSrc)
		return apperrors.Wrap(err, "load mortality")
	})
	g.Go(func() error {
		var err error
		popRows, popStats, err = loader.LoadPopulation(popSrc)
		return apperrors.Wrap(err, "load population")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loadLog := log.Named("loader")
	loadLog.Info("mortality loaded",
		zap.String("source", mortStats.Source),
		zap.Int("rows", mortStats.Rows),
		zap.Int("kept", mortStats.Kept),
		zap.Int("dropped", mortStats.Dropped),
	)
	loadLog.Info("population loaded",
		zap.String("source", popStats.Source),
		zap.Int("rows", popStats.Rows),
		zap.Int("skipped", popStats.Skipped),
		zap.Int("missing", popStats.Missing),
	)

	agg := loader.Aggregate(popRows)
	rated := rates.Calculate(records, agg)
	if missing := rates.CountMissing(rated); missing > 0 {
		log.Named("rates").Warn("records without population", zap.Int("missing", missing), zap.Int("total", len(rated)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := matrix.Build(rated, opts.Matrix)
	if err != nil {
		return nil, apperrors.Wrap(err, "build matrix")
	}
	rows, cols := m.Dims()
	matLog := log.Named("matrix")
	matLog.Info("matrix built", zap.Int("dates", rows), zap.Int("bands", cols), zap.Ints("filled", m.Filled))

	profiles, err := profiling.NewDataProfiler().ProfileMatrix(m)
	if err != nil {
		return nil, apperrors.Wrap(err, "profile matrix")
	}
	for _, p := range profiles {
		if p.Outliers > 0 {
			matLog.Debug("band has outlying weeks",
				zap.String("band", p.Band.String()),
				zap.Int("outliers", p.Outliers),
				zap.Float64("max", p.Max),
			)
		}
	}

	z, res, err := decompose.Run(m, opts.Components)
	if err != nil {
		return nil, apperrors.Wrap(err, "decompose")
	}
	log.Named("decompose").Info("components extracted",
		zap.Int("components", res.Components()),
		zap.Float64s("explained_variance_ratio", res.ExplainedVarianceRatio),
	)

	return &Analysis{
		Mortality:    records,
		Population:   agg,
		Rated:        rated,
		Matrix:       m,
		Profiles:     profiles,
		Standardized: z,
		Result:       res,
	}, nil
}
