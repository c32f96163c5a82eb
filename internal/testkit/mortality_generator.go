// Package testkit generates synthetic mortality and population tables in
// the layout the loaders read.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"mortpca/domain/mortality"
	"mortpca/ports"
)

// MortalityGeneratorConfig configures the synthetic data generator
type MortalityGeneratorConfig struct {
	StartYear       int                 `json:"start_year"`
	Years           int                 `json:"years"`
	Bands           []mortality.AgeBand `json:"bands"`
	BaseRate        float64             `json:"base_rate"`        // weekly deaths per 100k in the youngest band
	AgeFactor       float64             `json:"age_factor"`       // rate multiplier between adjacent bands
	WinterAmplitude float64             `json:"winter_amplitude"` // relative seasonal swing shared by all bands
	Noise           float64             `json:"noise"`            // relative per-cell noise
	PopulationBase  int                 `json:"population_base"`  // residents aged 55 in the first year
	Seed            int64               `json:"seed"`
}

// DefaultMortalityConfig returns defaults covering all seven bands over
// four ISO years.
func DefaultMortalityConfig() MortalityGeneratorConfig {
	return MortalityGeneratorConfig{
		StartYear:       2017,
		Years:           4,
		Bands:           mortality.Bands(),
		BaseRate:        20,
		AgeFactor:       1.6,
		WinterAmplitude: 0.25,
		Noise:           0.03,
		PopulationBase:  200000,
		Seed:            42,
	}
}

// MortalityDataGenerator produces the two input tables. Output is a pure
// function of the config.
type MortalityDataGenerator struct {
	config     MortalityGeneratorConfig
	rng        *rand.Rand
	population map[int]map[int]int // year -> age -> residents
	mortality  [][]string
}

const (
	minAge = 55
	maxAge = 104
)

// NewMortalityDataGenerator creates a generator and draws its data
func NewMortalityDataGenerator(config MortalityGeneratorConfig) *MortalityDataGenerator {
	g := &MortalityDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	g.generatePopulation()
	g.generateMortality()
	return g
}

// generatePopulation covers the year before StartYear too, since ISO week 1
// can start in late December.
func (g *MortalityDataGenerator) generatePopulation() {
	g.population = make(map[int]map[int]int)
	for year := g.config.StartYear - 1; year < g.config.StartYear+g.config.Years; year++ {
		growth := 1 + 0.005*float64(year-g.config.StartYear)
		ages := make(map[int]int, maxAge-minAge+1)
		for age := minAge; age <= maxAge; age++ {
			ages[age] = int(math.Round(float64(g.config.PopulationBase) * math.Exp(-0.06*float64(age-minAge)) * growth))
		}
		g.population[year] = ages
	}
}

func (g *MortalityDataGenerator) generateMortality() {
	g.mortality = [][]string{{"yearweek", "age", "deaths"}}
	for year := g.config.StartYear; year < g.config.StartYear+g.config.Years; year++ {
		for week := 1; week <= WeeksInYear(year); week++ {
			yw := fmt.Sprintf("%d-W%02d", year, week)
			monday := ISOWeekMonday(year, week)
			season := 1 + g.config.WinterAmplitude*math.Cos(2*math.Pi*float64(week-2)/52)

			total := 0
			for i, band := range g.config.Bands {
				rate := g.config.BaseRate * math.Pow(g.config.AgeFactor, float64(i)) * season
				rate *= 1 + g.config.Noise*g.rng.NormFloat64()
				deaths := int(math.Max(0, math.Round(rate*g.BandPopulation(monday.Year(), band)/1e5)))
				total += deaths
				g.mortality = append(g.mortality, []string{yw, band.String(), strconv.Itoa(deaths)})
			}
			// out-of-scope labels the loader drops
			g.mortality = append(g.mortality,
				[]string{yw, "Y_LT60", strconv.Itoa(g.rng.Intn(100))},
				[]string{yw, "TOTAL", strconv.Itoa(total)},
			)
		}
	}
}

// MortalityRows returns the weekly deaths table including its header.
func (g *MortalityDataGenerator) MortalityRows() [][]string {
	return cloneRows(g.mortality)
}

// PopulationRows returns the headerless population table, preceded by a
// duplicated "Year" header line as found in published files.
func (g *MortalityDataGenerator) PopulationRows() [][]string {
	rows := [][]string{{"Year", "Age", "Population"}}
	for year := g.config.StartYear - 1; year < g.config.StartYear+g.config.Years; year++ {
		for age := minAge; age <= maxAge; age++ {
			rows = append(rows, []string{strconv.Itoa(year), strconv.Itoa(age), strconv.Itoa(g.population[year][age])})
		}
	}
	return rows
}

// Tables returns both tables as in-memory sources.
func (g *MortalityDataGenerator) Tables() (mortalitySrc, populationSrc *ports.StaticTable) {
	return &ports.StaticTable{Source: "synthetic-mortality", Rows: g.MortalityRows()},
		&ports.StaticTable{Source: "synthetic-population", Rows: g.PopulationRows()}
}

// BandPopulation is the residents of band in year, 0 outside the generated range.
func (g *MortalityDataGenerator) BandPopulation(year int, band mortality.AgeBand) float64 {
	sum := 0
	for age := minAge; age <= maxAge; age++ {
		if b, ok := mortality.AssignAgeGroup(age); ok && b == band {
			sum += g.population[year][age]
		}
	}
	return float64(sum)
}

// WeeksInYear is the number of ISO weeks in year, 52 or 53.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// ISOWeekMonday returns the Monday starting ISO week of year.
func ISOWeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, (week-1)*7-offset)
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
