package report

import (
	"os"
	"time"

	"mortpca/internal/profiling"

	json "github.com/goccy/go-json"
)

// Summary is the machine-readable record of one run.
type Summary struct {
	RunID                  string                  `json:"run_id"`
	GeneratedAt            time.Time               `json:"generated_at"`
	MortalityFile          string                  `json:"mortality_file"`
	PopulationFile         string                  `json:"population_file"`
	Dates                  int                     `json:"dates"`
	FirstDate              string                  `json:"first_date"`
	LastDate               string                  `json:"last_date"`
	Bands                  []string                `json:"bands"`
	FilledCells            map[string]int          `json:"filled_cells"`
	ColumnMeans            map[string]float64      `json:"column_means"`
	ColumnStdDevs          map[string]float64      `json:"column_std_devs"`
	ExplainedVariance      []float64               `json:"explained_variance"`
	ExplainedVarianceRatio []float64               `json:"explained_variance_ratio"`
	Loadings               map[string][]float64    `json:"loadings"`
	Profiles               []profiling.BandProfile `json:"profiles,omitempty"`
}

// WriteSummary writes s as indented JSON.
func WriteSummary(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
