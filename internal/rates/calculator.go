// Package rates joins weekly deaths to population denominators.
package rates

import "mortpca/domain/mortality"

// PerHundredThousand is the rate scale.
const PerHundredThousand = 100000.0

// Calculate attaches population and mortality rate to every record. A record
// whose (year, band) has no population, or a zero population, gets a missing
// rate. No record is dropped.
func Calculate(records []mortality.MortalityRecord, pop mortality.PopulationAggregate) []mortality.RatedRecord {
	out := make([]mortality.RatedRecord, len(records))
	for i, rec := range records {
		rated := mortality.RatedRecord{MortalityRecord: rec}
		if p, ok := pop.Lookup(rec.Year, rec.Band); ok {
			rated.Population = mortality.Some(p)
			if p > 0 {
				rated.MortalityRate = mortality.Some(float64(rec.Deaths) / p * PerHundredThousand)
			}
		}
		out[i] = rated
	}
	return out
}

// CountMissing returns how many records have no rate
func CountMissing(records []mortality.RatedRecord) int {
	n := 0
	for _, r := range records {
		if !r.MortalityRate.Valid {
			n++
		}
	}
	return n
}
