package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	scoresSheet   = "Scores"
	loadingsSheet = "Loadings"
)

// WriteWorkbook exports the plotted series to an xlsx file.
func WriteWorkbook(path string, scores []ScoreSeries, loadings []LoadingSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return err
	}
	header := []interface{}{"date"}
	for _, s := range scores {
		header = append(header, s.Name)
	}
	if err := f.SetSheetRow(scoresSheet, "A1", &header); err != nil {
		return err
	}
	if len(scores) > 0 {
		for i, d := range scores[0].Dates {
			row := []interface{}{d.Format(time.DateOnly)}
			for _, s := range scores {
				row = append(row, s.Values[i])
			}
			if err := f.SetSheetRow(scoresSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
				return err
			}
		}
	}
	f.SetColWidth(scoresSheet, "A", "A", 12)

	if _, err := f.NewSheet(loadingsSheet); err != nil {
		return err
	}
	header = []interface{}{"age"}
	for _, s := range loadings {
		header = append(header, s.Name)
	}
	if err := f.SetSheetRow(loadingsSheet, "A1", &header); err != nil {
		return err
	}
	if len(loadings) > 0 {
		for i, b := range loadings[0].Bands {
			row := []interface{}{b.String()}
			for _, s := range loadings {
				row = append(row, s.Values[i])
			}
			if err := f.SetSheetRow(loadingsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
