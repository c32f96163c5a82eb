package loader

import (
	"math"
	"strconv"
	"strings"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"
	"mortpca/ports"
)

// populationHeader marks a header row repeated inside the data.
const populationHeader = "Year"

// LoadPopulation reads a headerless year, age, population table. Year and age
// must be integers; a population that is blank or not numeric is kept as
// missing.
func LoadPopulation(src ports.TableReader) ([]mortality.PopulationRecord, LoadReport, error) {
	table, err := src.ReadTable()
	if err != nil {
		return nil, LoadReport{}, apperrors.IOError("failed to read population table", err)
	}
	report := LoadReport{Source: table.Source}

	records := make([]mortality.PopulationRecord, 0, table.Len())
	for i, row := range table.Rows {
		rowNum := i + 1
		if isBlank(row) || row[0] == populationHeader {
			report.Skipped++
			continue
		}
		report.Rows++
		if len(row) < 2 {
			return nil, report, apperrors.WithCode(apperrors.CodeSchemaError,
				core.NewRowError(rowNum, "age", strings.Join(row, ","), core.ErrMissingColumn))
		}

		year, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, report, apperrors.ParseError(core.NewRowError(rowNum, "year", row[0], core.ErrMalformedNumber))
		}
		age, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, report, apperrors.ParseError(core.NewRowError(rowNum, "age", row[1], core.ErrMalformedNumber))
		}

		pop := mortality.Missing
		if len(row) > 2 {
			pop = parseOptionalFloat(row[2])
		}
		if !pop.Valid {
			report.Missing++
		}

		records = append(records, mortality.PopulationRecord{Year: year, Age: age, Population: pop})
		report.Kept++
	}

	return records, report, nil
}

// Aggregate sums population per (year, band), skipping missing values and
// ages below the lowest band.
func Aggregate(records []mortality.PopulationRecord) mortality.PopulationAggregate {
	totals := make(map[mortality.PopulationKey]float64)
	for _, rec := range records {
		band, ok := mortality.AssignAgeGroup(rec.Age)
		if !ok {
			continue
		}
		key := mortality.PopulationKey{Year: rec.Year, Band: band}
		if rec.Population.Valid {
			totals[key] += rec.Population.Float64
		} else if _, seen := totals[key]; !seen {
			totals[key] = 0
		}
	}
	return mortality.NewPopulationAggregate(totals)
}

func parseOptionalFloat(s string) mortality.NullFloat {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return mortality.Missing
	}
	return mortality.Some(v)
}
