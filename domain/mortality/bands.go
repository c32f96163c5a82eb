package mortality

// AgeBand is one of the seven Eurostat elderly age groups.
type AgeBand string

const (
	Band60to64 AgeBand = "Y60-64"
	Band65to69 AgeBand = "Y65-69"
	Band70to74 AgeBand = "Y70-74"
	Band75to79 AgeBand = "Y75-79"
	Band80to84 AgeBand = "Y80-84"
	Band85to89 AgeBand = "Y85-89"
	Band90Plus AgeBand = "Y_GE90"
)

// BandRange is the inclusive single-age range covered by a band.
type BandRange struct {
	Band   AgeBand
	MinAge int
	MaxAge int
}

// bandTable is ordered; the order is the canonical column order of the
// mortality matrix and also the lexical order of the labels.
var bandTable = []BandRange{
	{Band60to64, 60, 64},
	{Band65to69, 65, 69},
	{Band70to74, 70, 74},
	{Band75to79, 75, 79},
	{Band80to84, 80, 84},
	{Band85to89, 85, 89},
	{Band90Plus, 90, 200},
}

// Bands returns the seven recognized bands in canonical order.
func Bands() []AgeBand {
	out := make([]AgeBand, len(bandTable))
	for i, r := range bandTable {
		out[i] = r.Band
	}
	return out
}

// Ranges returns a copy of the band table.
func Ranges() []BandRange {
	out := make([]BandRange, len(bandTable))
	copy(out, bandTable)
	return out
}

// String returns the Eurostat label
func (b AgeBand) String() string {
	return string(b)
}

// Index returns the canonical position of the band, or -1 if unknown.
func (b AgeBand) Index() int {
	for i, r := range bandTable {
		if r.Band == b {
			return i
		}
	}
	return -1
}

// Valid reports whether b is one of the recognized bands
func (b AgeBand) Valid() bool {
	return b.Index() >= 0
}

// ParseAgeBand matches a label exactly against the recognized set.
func ParseAgeBand(label string) (AgeBand, bool) {
	b := AgeBand(label)
	return b, b.Valid()
}

// AssignAgeGroup maps a single year of age to its band. Ages below 60 have
// no band. The last band is open-ended, so every age >= 90 maps to Y_GE90.
func AssignAgeGroup(age int) (AgeBand, bool) {
	for _, r := range bandTable {
		if age >= r.MinAge && age <= r.MaxAge {
			return r.Band, true
		}
	}
	last := bandTable[len(bandTable)-1]
	if age > last.MaxAge {
		return last.Band, true
	}
	return "", false
}
