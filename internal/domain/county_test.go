package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCountyCSV = `County,Lignocellulose (dry tons),Kilogram/hr
Atlantic,98500,10200.66
Cape May,27900,2889.33
Salem,156900,16248.63
`

var testSchema = CountySchema{
	NameColumn:     "County",
	QuantityColumn: "Lignocellulose (dry tons)",
	QuantityUnit:   UnitTonsPerYear,
	FlowColumn:     "Kilogram/hr",
}

func mustTable(t *testing.T, data string, schema CountySchema) *CountyTable {
	t.Helper()
	table, err := ReadCountyTable(strings.NewReader(data), schema)
	require.NoError(t, err)
	return table
}

func TestResolve_CaseInsensitive(t *testing.T) {
	table := mustTable(t, testCountyCSV, testSchema)

	lower, err := table.Resolve("cape may")
	require.NoError(t, err)
	canonical, err := table.Resolve("Cape May")
	require.NoError(t, err)
	padded, err := table.Resolve("  CAPE MAY ")
	require.NoError(t, err)

	assert.Equal(t, canonical, lower)
	assert.Equal(t, canonical, padded)
	assert.Equal(t, "Cape May", canonical.Name)
	assert.Equal(t, 27900.0, canonical.Quantity)
	assert.Equal(t, 2889.33, canonical.KgPerHour)
}

func TestResolve_NotFound(t *testing.T) {
	table := mustTable(t, testCountyCSV, testSchema)

	for _, name := range []string{"Unknown County", "", "Cape", "Cape May County"} {
		_, err := table.Resolve(name)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound), "name %q", name)
		assert.False(t, errors.Is(err, ErrSchema))
	}
}

func TestResolve_MissingColumnIsSchemaError(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		column string
	}{
		{
			name:   "missing flow column",
			data:   "County,Lignocellulose (dry tons)\nAtlantic,98500\n",
			column: "Kilogram/hr",
		},
		{
			name:   "missing quantity column",
			data:   "County,Kilogram/hr\nAtlantic,10200.66\n",
			column: "Lignocellulose (dry tons)",
		},
		{
			name:   "missing name column",
			data:   "Name,Lignocellulose (dry tons),Kilogram/hr\nAtlantic,98500,10200.66\n",
			column: "County",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, tt.data, testSchema)
			_, err := table.Resolve("Atlantic")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema))
			assert.False(t, errors.Is(err, ErrNotFound))
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestResolve_NonNumericCell(t *testing.T) {
	table := mustTable(t, "County,Lignocellulose (dry tons),Kilogram/hr\nAtlantic,lots,10\n", testSchema)
	_, err := table.Resolve("atlantic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestNewCountyTable_RejectsDuplicates(t *testing.T) {
	_, err := ReadCountyTable(strings.NewReader(testCountyCSV+"SALEM,1,1\n"), testSchema)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestReadCountyTable_Empty(t *testing.T) {
	_, err := ReadCountyTable(strings.NewReader(""), testSchema)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestValidate(t *testing.T) {
	require.NoError(t, mustTable(t, testCountyCSV, testSchema).Validate())

	bad := mustTable(t, "County,Kilogram/hr\nAtlantic,x\n", testSchema)
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "Lignocellulose (dry tons)")
}

func TestNames(t *testing.T) {
	table := mustTable(t, testCountyCSV, testSchema)
	assert.Equal(t, []string{"Atlantic", "Cape May", "Salem"}, table.Names())
	assert.Equal(t, 3, table.Len())
}
