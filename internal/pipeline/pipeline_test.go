package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	"mortpca/internal/config"
	apperrors "mortpca/internal/errors"
	"mortpca/internal/testkit"
	"mortpca/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// mortalityRows covers ISO weeks 1-52 of 2019 and 2020 for two bands plus
// an out-of-scope total row per week. Week 10 of 2019 has 500 and 400 deaths.
func mortalityRows() [][]string {
	rows := [][]string{{"yearweek", "age", "deaths"}}
	for _, year := range []int{2019, 2020} {
		for w := 1; w <= 52; w++ {
			d60 := 500 + (w*37)%50 - 25
			d65 := 400 + (w*23+year)%40 - 20
			if year == 2019 && w == 10 {
				d60, d65 = 500, 400
			}
			yw := fmt.Sprintf("%d-W%02d", year, w)
			rows = append(rows,
				[]string{yw, "Y60-64", fmt.Sprint(d60)},
				[]string{yw, "Y65-69", fmt.Sprint(d65)},
				[]string{yw, "TOTAL", fmt.Sprint(d60 + d65 + 1000)},
			)
		}
	}
	return rows
}

func populationRows() [][]string {
	rows := [][]string{{"Year", "Age", "Population"}}
	for year, per := range map[int][2]int{2019: {200000, 160000}, 2020: {202000, 161000}} {
		for age := 50; age <= 69; age++ {
			pop := 999999
			switch {
			case age >= 65:
				pop = per[1]
			case age >= 60:
				pop = per[0]
			}
			rows = append(rows, []string{fmt.Sprint(year), fmt.Sprint(age), fmt.Sprint(pop)})
		}
	}
	return rows
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func TestAnalyze_EndToEnd(t *testing.T) {
	mortSrc := &ports.StaticTable{Source: "fixed.csv", Rows: mortalityRows()}
	popSrc := &ports.StaticTable{Source: "pop.csv", Rows: populationRows()}

	a, err := Analyze(context.Background(), mortSrc, popSrc, Options{}, nil)
	require.NoError(t, err)

	require.Len(t, a.Mortality, 2*52*2)
	v, ok := a.Population.Lookup(2019, mortality.Band60to64)
	require.True(t, ok)
	assert.Equal(t, 1000000.0, v)
	v, _ = a.Population.Lookup(2019, mortality.Band65to69)
	assert.Equal(t, 800000.0, v)

	var found int
	for _, r := range a.Rated {
		if r.YearWeek == "2019-W10" {
			require.True(t, r.MortalityRate.Valid)
			assert.InDelta(t, 50.0, r.MortalityRate.Float64, 1e-12, "band %s", r.Band)
			found++
		}
		// 2019-W01 starts on 2018-12-31; there is no 2018 population
		if r.YearWeek == "2019-W01" {
			assert.Equal(t, 2018, r.Year)
			assert.False(t, r.MortalityRate.Valid)
		}
	}
	assert.Equal(t, 2, found)

	rows, cols := a.Matrix.Dims()
	assert.Equal(t, 104, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []int{1, 1}, a.Matrix.Filled, "the 2018 week is back-filled")
	assert.Equal(t, a.Matrix.Values.At(1, 0), a.Matrix.Values.At(0, 0))

	l1 := mat.Col(nil, 0, a.Result.Loadings)
	l2 := mat.Col(nil, 1, a.Result.Loadings)
	assert.InDelta(t, 0, floats.Dot(l1, l2), 1e-10)
	assert.InDelta(t, 1, floats.Sum(a.Result.ExplainedVarianceRatio), 1e-10)
	sr, sc := a.Result.Scores.Dims()
	assert.Equal(t, 104, sr)
	assert.Equal(t, 2, sc)
}

func TestAnalyze_SyntheticSeasonality(t *testing.T) {
	gen := testkit.NewMortalityDataGenerator(testkit.DefaultMortalityConfig())
	mortSrc, popSrc := gen.Tables()

	a, err := Analyze(context.Background(), mortSrc, popSrc, Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, mortality.Bands(), a.Matrix.Bands)
	assert.Equal(t, make([]int, 7), a.Matrix.Filled, "population covers every week")
	require.Len(t, a.Profiles, 7)
	for j, p := range a.Profiles {
		assert.Equal(t, a.Matrix.Bands[j], p.Band)
		assert.Greater(t, p.Max, p.Min)
	}

	// one winter wave shared by every band dominates
	assert.Greater(t, a.Result.ExplainedVarianceRatio[0], 0.8)
	for i := range a.Matrix.Bands {
		assert.Greater(t, a.Result.Loadings.At(i, 0), 0.0, "row %d", i)
	}
	v, ok := a.Population.Lookup(2018, mortality.Band75to79)
	require.True(t, ok)
	assert.Equal(t, gen.BandPopulation(2018, mortality.Band75to79), v)
}

func TestAnalyze_PropagatesStageErrors(t *testing.T) {
	bad := mortalityRows()
	bad[5][0] = "2019-X03"

	_, err := Analyze(context.Background(),
		&ports.StaticTable{Rows: bad},
		&ports.StaticTable{Rows: populationRows()},
		Options{}, nil)
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "load mortality")

	// without population every rate is missing and no column can be filled
	_, err = Analyze(context.Background(),
		&ports.StaticTable{Rows: mortalityRows()},
		&ports.StaticTable{Rows: [][]string{{"Year", "Age", "Population"}}},
		Options{}, nil)
	require.Error(t, err)
	assert.True(t, core.IsDataGapError(err))
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Analyze(ctx,
		&ports.StaticTable{Rows: mortalityRows()},
		&ports.StaticTable{Rows: populationRows()},
		Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	mortPath := filepath.Join(dir, "fixed.csv")
	popPath := filepath.Join(dir, "leeftijdsopbouw.csv")
	writeCSV(t, mortPath, mortalityRows())
	writeCSV(t, popPath, populationRows()[1:])

	cfg := &config.Config{
		Data: config.DataConfig{
			MortalityFile:  mortPath,
			PopulationFile: popPath,
			OutputDir:      filepath.Join(dir, "out"),
		},
		Analysis: config.AnalysisConfig{DuplicatePolicy: "reject", Components: 2},
	}

	res, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.RunID.IsEmpty())

	for _, path := range []string{res.Report.ScoresChart, res.Report.LoadingsChart, res.Report.Workbook, res.Report.Summary} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestPipeline_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Data: config.DataConfig{
			MortalityFile:  filepath.Join(dir, "absent.csv"),
			PopulationFile: filepath.Join(dir, "absent-pop.csv"),
			OutputDir:      filepath.Join(dir, "out"),
		},
		Analysis: config.AnalysisConfig{Components: 2},
	}

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIOError, apperrors.GetCode(err))
}
