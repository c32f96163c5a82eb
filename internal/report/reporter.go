package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	"mortpca/internal/decompose"
	apperrors "mortpca/internal/errors"
	"mortpca/internal/profiling"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// Output file names inside the report directory.
const (
	ScoresChartFile   = "scores.png"
	LoadingsChartFile = "loadings.png"
	WorkbookFile      = "pca.xlsx"
	SummaryFile       = "summary.json"
)

// Input is everything one report is drawn from.
type Input struct {
	RunID          core.RunID
	MortalityFile  string
	PopulationFile string
	Matrix         *mortality.MortalityMatrix
	Profiles       []profiling.BandProfile
	Standardized   *decompose.Standardized
	Result         *mortality.DecompositionResult
}

// Output lists the files written.
type Output struct {
	ScoresChart   string
	LoadingsChart string
	Workbook      string
	Summary       string
}

// Reporter writes report files into one directory.
type Reporter struct {
	dir    string
	logger *zap.Logger
}

// NewReporter creates a reporter writing into dir
func NewReporter(dir string, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{dir: dir, logger: logger}
}

// Write renders the two charts and exports their series.
func (r *Reporter) Write(in Input) (*Output, error) {
	n := min(in.Result.Components(), decompose.DefaultComponents)

	scores, err := Scores(in.Matrix.Dates, in.Result, n)
	if err != nil {
		return nil, apperrors.Wrap(err, "score series")
	}
	loadings, err := Loadings(in.Matrix.Bands, in.Result, n)
	if err != nil {
		return nil, apperrors.Wrap(err, "loading series")
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, apperrors.IOError("create report directory", err)
	}
	out := &Output{
		ScoresChart:   filepath.Join(r.dir, ScoresChartFile),
		LoadingsChart: filepath.Join(r.dir, LoadingsChartFile),
		Workbook:      filepath.Join(r.dir, WorkbookFile),
		Summary:       filepath.Join(r.dir, SummaryFile),
	}

	sp, err := ScoresPlot(scores)
	if err != nil {
		return nil, apperrors.Wrap(err, "build scores chart")
	}
	if err := sp.Save(14*vg.Inch, 6*vg.Inch, out.ScoresChart); err != nil {
		return nil, apperrors.IOError("save scores chart", err)
	}

	lp, err := LoadingsPlot(loadings)
	if err != nil {
		return nil, apperrors.Wrap(err, "build loadings chart")
	}
	if err := lp.Save(12*vg.Inch, 5*vg.Inch, out.LoadingsChart); err != nil {
		return nil, apperrors.IOError("save loadings chart", err)
	}

	if err := WriteWorkbook(out.Workbook, scores, loadings); err != nil {
		return nil, apperrors.IOError("write workbook", err)
	}
	if err := WriteSummary(out.Summary, buildSummary(in, loadings)); err != nil {
		return nil, apperrors.IOError("write summary", err)
	}

	r.logger.Info("report written",
		zap.String("dir", r.dir),
		zap.Int("components", n),
		zap.Float64s("explained_variance_ratio", in.Result.ExplainedVarianceRatio[:n]),
	)
	return out, nil
}

func buildSummary(in Input, loadings []LoadingSeries) Summary {
	m := in.Matrix
	s := Summary{
		RunID:                  in.RunID.String(),
		GeneratedAt:            time.Now().UTC(),
		MortalityFile:          in.MortalityFile,
		PopulationFile:         in.PopulationFile,
		Dates:                  len(m.Dates),
		FilledCells:            make(map[string]int, len(m.Bands)),
		ColumnMeans:            make(map[string]float64, len(m.Bands)),
		ColumnStdDevs:          make(map[string]float64, len(m.Bands)),
		ExplainedVariance:      in.Result.ExplainedVariance,
		ExplainedVarianceRatio: in.Result.ExplainedVarianceRatio,
		Loadings:               make(map[string][]float64, len(loadings)),
		Profiles:               in.Profiles,
	}
	if len(m.Dates) > 0 {
		s.FirstDate = m.Dates[0].Format(time.DateOnly)
		s.LastDate = m.Dates[len(m.Dates)-1].Format(time.DateOnly)
	}
	for j, b := range m.Bands {
		s.Bands = append(s.Bands, b.String())
		s.FilledCells[b.String()] = m.Filled[j]
		if in.Standardized != nil {
			s.ColumnMeans[b.String()] = in.Standardized.Means[j]
			s.ColumnStdDevs[b.String()] = in.Standardized.StdDevs[j]
		}
	}
	for c, l := range loadings {
		s.Loadings[fmt.Sprintf("PC%d", c+1)] = l.Values
	}
	return s
}
