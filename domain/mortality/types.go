package mortality

import (
	"sort"
	"time"
)

// NullFloat is a float64 that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some wraps a known value
func Some(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Missing is the absent value
var Missing = NullFloat{}

// MortalityRecord is one weekly death count for an age band.
type MortalityRecord struct {
	YearWeek string    `json:"yearweek"`
	Band     AgeBand   `json:"age"`
	Deaths   int       `json:"deaths"`
	Date     time.Time `json:"date"` // Monday of the ISO week
	Year     int       `json:"year"` // calendar year of Date
}

// PopulationRecord is the population of one single year of age.
type PopulationRecord struct {
	Year       int       `json:"year"`
	Age        int       `json:"age"`
	Population NullFloat `json:"population"`
}

// PopulationKey is the composite join key between mortality and population.
type PopulationKey struct {
	Year int
	Band AgeBand
}

// PopulationAggregate maps (year, band) to summed population. It is built
// once by NewPopulationAggregate and never mutated afterwards.
type PopulationAggregate struct {
	totals map[PopulationKey]float64
}

// NewPopulationAggregate copies totals into an immutable aggregate.
func NewPopulationAggregate(totals map[PopulationKey]float64) PopulationAggregate {
	cp := make(map[PopulationKey]float64, len(totals))
	for k, v := range totals {
		cp[k] = v
	}
	return PopulationAggregate{totals: cp}
}

// Lookup returns the population for a key and whether it exists.
func (a PopulationAggregate) Lookup(year int, band AgeBand) (float64, bool) {
	v, ok := a.totals[PopulationKey{Year: year, Band: band}]
	return v, ok
}

// Len returns the number of (year, band) keys
func (a PopulationAggregate) Len() int {
	return len(a.totals)
}

// Keys returns all keys sorted by year, then canonical band order.
func (a PopulationAggregate) Keys() []PopulationKey {
	keys := make([]PopulationKey, 0, len(a.totals))
	for k := range a.totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Band.Index() < keys[j].Band.Index()
	})
	return keys
}

// YearTotal sums the population over all bands of a year.
func (a PopulationAggregate) YearTotal(year int) float64 {
	total := 0.0
	for k, v := range a.totals {
		if k.Year == year {
			total += v
		}
	}
	return total
}

// RatedRecord is a mortality record joined with its population denominator.
type RatedRecord struct {
	MortalityRecord
	Population    NullFloat `json:"population"`
	MortalityRate NullFloat `json:"mortality_rate"` // deaths per 100,000
}
