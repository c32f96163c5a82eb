package loader

import (
	"errors"
	"testing"
	"time"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"
	"mortpca/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(rows ...[]string) *ports.StaticTable {
	return &ports.StaticTable{Source: "memory", Rows: rows}
}

func TestLoadMortality_FiltersBandsAndDerivesDates(t *testing.T) {
	src := table(
		[]string{"yearweek", "age", "deaths"},
		[]string{"2020-W01", "Y60-64", "120"},
		[]string{"2020-W01", "Y_LT60", "40"},
		[]string{"2020-W01", "TOTAL", "900"},
		[]string{"", "", ""},
		[]string{"2020-W15", "Y_GE90", "310"},
	)

	records, report, err := LoadMortality(src)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, mortality.Band60to64, records[0].Band)
	assert.Equal(t, 120, records[0].Deaths)
	assert.Equal(t, 2019, records[0].Year, "calendar year of the Monday")
	assert.True(t, records[0].Date.Equal(time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, mortality.Band90Plus, records[1].Band)
	assert.Equal(t, 2020, records[1].Year)
	assert.Equal(t, "2020-W15", records[1].YearWeek)

	assert.Equal(t, LoadReport{Source: "memory", Rows: 4, Kept: 2, Dropped: 2, Skipped: 1}, report)
}

func TestLoadMortality_HeaderLookupIsCaseInsensitive(t *testing.T) {
	src := table(
		[]string{"Deaths", "YearWeek", "Age"},
		[]string{"7", "2019-W10", "Y70-74"},
	)

	records, _, err := LoadMortality(src)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].Deaths)
	assert.Equal(t, mortality.Band70to74, records[0].Band)
}

func TestLoadMortality_MalformedYearWeekIsFatal(t *testing.T) {
	src := table(
		[]string{"yearweek", "age", "deaths"},
		[]string{"2020-W01", "Y60-64", "1"},
		[]string{"2020-W99", "Y_LT60", "1"},
	)

	_, _, err := LoadMortality(src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMalformedYearWeek))
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "2020-W99")
}

func TestLoadMortality_BadDeaths(t *testing.T) {
	for _, cell := range []string{"", "abc", "-3", "1.5"} {
		src := table(
			[]string{"yearweek", "age", "deaths"},
			[]string{"2020-W01", "Y60-64", cell},
		)
		_, _, err := LoadMortality(src)
		require.Error(t, err, "deaths %q", cell)
		assert.True(t, errors.Is(err, core.ErrMalformedNumber))
	}
}

func TestLoadMortality_SchemaErrors(t *testing.T) {
	_, _, err := LoadMortality(table([]string{"yearweek", "age"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	assert.Equal(t, apperrors.CodeSchemaError, apperrors.GetCode(err))

	_, _, err = LoadMortality(table())
	require.Error(t, err)

	_, _, err = LoadMortality(table(
		[]string{"yearweek", "age", "deaths"},
		[]string{"2020-W01", "Y60-64"},
	))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSchemaError, apperrors.GetCode(err))
}
