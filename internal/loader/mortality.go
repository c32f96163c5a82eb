package loader

import (
	"strconv"
	"strings"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"
	"mortpca/ports"
)

// Mortality input column names, matched case-insensitively.
const (
	ColumnYearWeek = "yearweek"
	ColumnAge      = "age"
	ColumnDeaths   = "deaths"
)

// LoadMortality reads weekly death counts. The first row is the header.
// Rows for age groups outside the seven elderly bands are dropped. Any
// unparseable year-week (in any row) or death count (in a kept row) fails
// the whole load.
func LoadMortality(src ports.TableReader) ([]mortality.MortalityRecord, LoadReport, error) {
	table, err := src.ReadTable()
	if err != nil {
		return nil, LoadReport{}, apperrors.IOError("failed to read mortality table", err)
	}
	report := LoadReport{Source: table.Source}
	if table.Len() == 0 {
		return nil, report, apperrors.WithCode(apperrors.CodeSchemaError,
			core.NewColumnError(ColumnYearWeek, core.ErrMissingColumn))
	}

	cols, err := locateColumns(table.Rows[0], ColumnYearWeek, ColumnAge, ColumnDeaths)
	if err != nil {
		return nil, report, err
	}
	width := 0
	for _, c := range cols {
		width = max(width, c+1)
	}

	records := make([]mortality.MortalityRecord, 0, table.Len()-1)
	for i, row := range table.Rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			report.Skipped++
			continue
		}
		report.Rows++
		if len(row) < width {
			return nil, report, apperrors.WithCode(apperrors.CodeSchemaError,
				core.NewRowError(rowNum, "*", strings.Join(row, ","), core.ErrMissingColumn))
		}

		yearWeek := row[cols[0]]
		date, err := ParseISOWeek(yearWeek)
		if err != nil {
			return nil, report, apperrors.ParseError(core.NewRowError(rowNum, ColumnYearWeek, yearWeek, core.ErrMalformedYearWeek))
		}

		band, ok := mortality.ParseAgeBand(row[cols[1]])
		if !ok {
			report.Dropped++
			continue
		}

		deathsCell := row[cols[2]]
		deaths, err := strconv.Atoi(deathsCell)
		if err != nil || deaths < 0 {
			return nil, report, apperrors.ParseError(core.NewRowError(rowNum, ColumnDeaths, deathsCell, core.ErrMalformedNumber))
		}

		records = append(records, mortality.MortalityRecord{
			YearWeek: yearWeek,
			Band:     band,
			Deaths:   deaths,
			Date:     date,
			Year:     date.Year(),
		})
		report.Kept++
	}

	return records, report, nil
}

// locateColumns returns the index of each named column in the header.
func locateColumns(header []string, names ...string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	out := make([]int, len(names))
	for i, name := range names {
		pos, ok := index[name]
		if !ok {
			return nil, apperrors.WithCode(apperrors.CodeSchemaError, core.NewColumnError(name, core.ErrMissingColumn))
		}
		out[i] = pos
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
