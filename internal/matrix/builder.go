// Package matrix pivots rated records into a dense date x age band table.
package matrix

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"

	"gonum.org/v1/gonum/mat"
)

// DuplicatePolicy decides what happens when several records share a
// (date, band) cell.
type DuplicatePolicy string

const (
	DuplicateReject DuplicatePolicy = "reject" // fail the build
	DuplicateFirst  DuplicatePolicy = "first"  // first record in input order wins, even if its rate is missing
	DuplicateMean   DuplicatePolicy = "mean"   // average of the known rates
)

// Valid reports whether p is a known policy
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case DuplicateReject, DuplicateFirst, DuplicateMean:
		return true
	}
	return false
}

// Options controls the pivot
type Options struct {
	Duplicates DuplicatePolicy
}

// DefaultOptions rejects duplicate cells
func DefaultOptions() Options {
	return Options{Duplicates: DuplicateReject}
}

var errNoAnchor = errors.New("no known value to interpolate from")

type cell struct {
	records int
	sum     float64
	known   int
	first   mortality.NullFloat
}

func (c *cell) add(rate mortality.NullFloat) {
	if c.records == 0 {
		c.first = rate
	}
	c.records++
	if rate.Valid {
		c.sum += rate.Float64
		c.known++
	}
}

func (c *cell) value(policy DuplicatePolicy) (float64, bool) {
	if policy == DuplicateMean {
		if c.known == 0 {
			return 0, false
		}
		return c.sum / float64(c.known), true
	}
	return c.first.Float64, c.first.Valid
}

// Build pivots records into a MortalityMatrix: one row per distinct date in
// ascending order, one column per band present, in canonical band order.
// Missing cells are filled by FillLinear. A column without any known rate
// fails the build.
func Build(records []mortality.RatedRecord, opts Options) (*mortality.MortalityMatrix, error) {
	if opts.Duplicates == "" {
		opts.Duplicates = DuplicateReject
	}
	if !opts.Duplicates.Valid() {
		return nil, apperrors.ConfigInvalid(fmt.Sprintf("unknown duplicate policy %q", opts.Duplicates))
	}
	if len(records) == 0 {
		return nil, apperrors.DegenerateInput(fmt.Errorf("%w: no rated records", core.ErrInsufficientData))
	}

	dates, dateIndex := distinctDates(records)
	bands, bandIndex := presentBands(records)

	cells := make([]cell, len(dates)*len(bands))
	for _, rec := range records {
		j, ok := bandIndex[rec.Band]
		if !ok {
			return nil, apperrors.SchemaError(fmt.Sprintf("unrecognized age band %q", rec.Band))
		}
		c := &cells[dateIndex[rec.Date.Unix()]*len(bands)+j]
		if c.records > 0 && opts.Duplicates == DuplicateReject {
			return nil, apperrors.DataGap(fmt.Errorf("%w: %s %s",
				core.ErrDuplicateCell, rec.Date.Format(time.DateOnly), rec.Band))
		}
		c.add(rec.MortalityRate)
	}

	data := make([]float64, len(dates)*len(bands))
	filled := make([]int, len(bands))
	column := make([]float64, len(dates))
	known := make([]bool, len(dates))
	for j, band := range bands {
		for i := range dates {
			column[i], known[i] = cells[i*len(bands)+j].value(opts.Duplicates)
		}
		dense, n, err := FillLinear(column, known)
		if errors.Is(err, errNoAnchor) {
			return nil, apperrors.DataGap(core.NewColumnError(band.String(), core.ErrEmptyColumn))
		}
		if err != nil {
			return nil, apperrors.Wrapf(err, "interpolate %s", band)
		}
		for i, v := range dense {
			data[i*len(bands)+j] = v
		}
		filled[j] = n
	}

	return &mortality.MortalityMatrix{
		Dates:  dates,
		Bands:  bands,
		Values: mat.NewDense(len(dates), len(bands), data),
		Filled: filled,
	}, nil
}

func distinctDates(records []mortality.RatedRecord) ([]time.Time, map[int64]int) {
	seen := make(map[int64]time.Time)
	for _, rec := range records {
		seen[rec.Date.Unix()] = rec.Date
	}
	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[int64]int, len(dates))
	for i, d := range dates {
		index[d.Unix()] = i
	}
	return dates, index
}

func presentBands(records []mortality.RatedRecord) ([]mortality.AgeBand, map[mortality.AgeBand]int) {
	present := make(map[mortality.AgeBand]bool)
	for _, rec := range records {
		present[rec.Band] = true
	}
	var bands []mortality.AgeBand
	for _, b := range mortality.Bands() {
		if present[b] {
			bands = append(bands, b)
		}
	}
	index := make(map[mortality.AgeBand]int, len(bands))
	for i, b := range bands {
		index[b] = i
	}
	return bands, index
}
