package preview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/service/templates"
)

func csvOf(header []string, rows ...[]string) *domain.CsvData {
	csv := &domain.CsvData{Rows: rows}
	for i, h := range header {
		csv.OrderedColumns = append(csv.OrderedColumns, domain.NewColumn(h, i))
	}
	return csv
}

func obs(place, sv, date, value, unit string) domain.Observation {
	return domain.Observation{Place: place, StatVar: sv, Date: date, Value: decimal.RequireFromString(value), Unit: unit}
}

var decimalCmp = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestBuild_MultiVarCol(t *testing.T) {
	csv := csvOf([]string{"geo", "year", "Count_Person", "Median_Age"},
		[]string{"country/USA", "2020", "331,002,651", "38.1"},
		[]string{"country/IND", "2020", "1380004385", ""},
	)
	cols := csv.OrderedColumns
	m := domain.UserMapping{}.
		With(domain.MappedThingPlace, domain.ColumnVal(cols[0])).
		With(domain.MappedThingDate, domain.ColumnVal(cols[1])).
		With(domain.MappedThingStatVar, domain.HeaderVal(cols[2], cols[3])).
		With(domain.MappedThingUnit, domain.ConstantVal("Count"))

	res, err := Build(templates.MultiVarCol, m, csv, 0)
	require.NoError(t, err)

	want := []domain.Observation{
		obs("country/USA", "Count_Person", "2020", "331002651", "Count"),
		obs("country/USA", "Median_Age", "2020", "38.1", "Count"),
		obs("country/IND", "Count_Person", "2020", "1380004385", "Count"),
	}
	if diff := cmp.Diff(want, res.Observations, decimalCmp); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RowError{Row: 2, Column: "Median_Age", Message: "empty value"}, res.Errors[0])
	assert.Equal(t, 2, res.RowsRead)
	assert.False(t, res.Truncated)
}

func TestBuild_MultiVarMultiDateCol(t *testing.T) {
	csv := csvOf([]string{"variable", "place", "2019", "2020", "unit"},
		[]string{"Count_Person", "geoId/06", "39.5", "39.4", "Million"},
		[]string{"Count_Person", "", "1", "2", "Million"},
		[]string{"Count_Household", "geoId/06", "13", "n/a", ""},
	)
	cols := csv.OrderedColumns
	m := domain.UserMapping{}.
		With(domain.MappedThingStatVar, domain.ColumnVal(cols[0])).
		With(domain.MappedThingPlace, domain.ColumnVal(cols[1])).
		With(domain.MappedThingDate, domain.HeaderVal(cols[2], cols[3])).
		With(domain.MappedThingUnit, domain.ColumnVal(cols[4]))

	res, err := Build(templates.MultiVarMultiDateCol, m, csv, 0)
	require.NoError(t, err)

	want := []domain.Observation{
		obs("geoId/06", "Count_Person", "2019", "39.5", "Million"),
		obs("geoId/06", "Count_Person", "2020", "39.4", "Million"),
		obs("geoId/06", "Count_Household", "2019", "13", ""),
	}
	if diff := cmp.Diff(want, res.Observations, decimalCmp); diff != "" {
		t.Errorf("observations mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "empty Place", res.Errors[0].Message)
	assert.Equal(t, "2020", res.Errors[1].Column)
}

func TestBuild_Incomplete(t *testing.T) {
	csv := csvOf([]string{"geo", "year"})
	m := domain.UserMapping{}.With(domain.MappedThingDate, domain.ColumnVal(csv.OrderedColumns[1]))

	_, err := Build(templates.MultiVarCol, m, csv, 0)
	assert.ErrorIs(t, err, constants.ErrIncompleteMapping)

	m = m.
		With(domain.MappedThingPlace, domain.ColumnVal(csv.OrderedColumns[0])).
		With(domain.MappedThingStatVar, domain.ConstantVal("Count_Person"))
	_, err = Build(templates.MultiVarCol, m, csv, 0)
	assert.ErrorIs(t, err, constants.ErrIncompleteMapping)
	assert.ErrorContains(t, err, "missing STAT_VAR")
}

func TestBuild_Truncates(t *testing.T) {
	csv := csvOf([]string{"geo", "year", "v"},
		[]string{"a", "2020", "1"},
		[]string{"b", "2020", "2"},
		[]string{"c", "2020", "3"},
	)
	cols := csv.OrderedColumns
	m := domain.UserMapping{}.
		With(domain.MappedThingPlace, domain.ColumnVal(cols[0])).
		With(domain.MappedThingDate, domain.ColumnVal(cols[1])).
		With(domain.MappedThingStatVar, domain.HeaderVal(cols[2]))

	res, err := Build(templates.MultiVarCol, m, csv, 2)
	require.NoError(t, err)
	assert.Len(t, res.Observations, 2)
	assert.True(t, res.Truncated)
	assert.Equal(t, 2, res.RowsRead)
}
