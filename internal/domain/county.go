package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CountyRecord is one resolved row of a county reference table.
type CountyRecord struct {
	Name      string  // canonical, as cased in the table
	Quantity  float64 // feedstock in the table's native unit
	KgPerHour float64 // derived feedstock flow
}

// CountySchema names the columns a county table must provide.
type CountySchema struct {
	NameColumn     string `yaml:"name_column"`
	QuantityColumn string `yaml:"quantity_column"`
	QuantityUnit   Unit   `yaml:"quantity_unit"`
	FlowColumn     string `yaml:"flow_column"`
}

// CountyTable is an immutable in-memory county reference table. It is safe for
// concurrent reads.
type CountyTable struct {
	schema  CountySchema
	header  []string
	columns map[string]int
	rows    [][]string
	index   map[string]int // lower-cased county name -> row
}

// ReadCountyTable parses CSV data whose first record is the header.
func ReadCountyTable(r io.Reader, schema CountySchema) (*CountyTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read county csv: %w", err)
	}
	if len(records) == 0 {
		return nil, Errorf(ErrSchema, "county table is empty")
	}
	return NewCountyTable(schema, records[0], records[1:])
}

// NewCountyTable builds a table from a header and its rows. Missing columns are
// reported lazily by Resolve and Validate; duplicate county names are rejected
// here because they would make lookups ambiguous.
func NewCountyTable(schema CountySchema, header []string, rows [][]string) (*CountyTable, error) {
	t := &CountyTable{
		schema:  schema,
		header:  append([]string(nil), header...),
		columns: make(map[string]int, len(header)),
		rows:    rows,
	}
	for i, h := range header {
		t.columns[strings.TrimSpace(h)] = i
	}

	nameIdx, ok := t.columns[schema.NameColumn]
	if !ok {
		return t, nil
	}
	t.index = make(map[string]int, len(rows))
	for i, row := range rows {
		if nameIdx >= len(row) {
			return nil, Errorf(ErrSchema, "row %d has no %q value", i+2, schema.NameColumn)
		}
		key := normalizeCountyKey(row[nameIdx])
		if prev, dup := t.index[key]; dup {
			return nil, Errorf(ErrSchema, "county %q appears in rows %d and %d", row[nameIdx], prev+2, i+2)
		}
		t.index[key] = i
	}
	return t, nil
}

// Schema returns the column mapping the table was built with.
func (t *CountyTable) Schema() CountySchema { return t.schema }

// Len returns the number of counties.
func (t *CountyTable) Len() int { return len(t.rows) }

// Names returns the canonical county names in table order. It returns nil when
// the name column is missing.
func (t *CountyTable) Names() []string {
	idx, ok := t.columns[t.schema.NameColumn]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		names = append(names, strings.TrimSpace(row[idx]))
	}
	return names
}

// Resolve looks up a county by name, ignoring case and surrounding whitespace.
func (t *CountyTable) Resolve(name string) (CountyRecord, error) {
	nameIdx, ok := t.columns[t.schema.NameColumn]
	if !ok {
		return CountyRecord{}, t.missingColumn(t.schema.NameColumn)
	}

	rowIdx, ok := t.index[normalizeCountyKey(name)]
	if !ok {
		return CountyRecord{}, Errorf(ErrNotFound, "county %q not found", strings.TrimSpace(name))
	}
	return t.record(t.rows[rowIdx], nameIdx)
}

// Validate checks that every expected column exists and every numeric cell
// parses. It reports all problems at once.
func (t *CountyTable) Validate() error {
	var errs []error
	for _, col := range []string{t.schema.NameColumn, t.schema.QuantityColumn, t.schema.FlowColumn} {
		if _, ok := t.columns[col]; !ok {
			errs = append(errs, t.missingColumn(col))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	nameIdx := t.columns[t.schema.NameColumn]
	for _, row := range t.rows {
		if _, err := t.record(row, nameIdx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *CountyTable) record(row []string, nameIdx int) (CountyRecord, error) {
	name := strings.TrimSpace(row[nameIdx])
	quantity, err := t.numericCell(row, name, t.schema.QuantityColumn)
	if err != nil {
		return CountyRecord{}, err
	}
	flow, err := t.numericCell(row, name, t.schema.FlowColumn)
	if err != nil {
		return CountyRecord{}, err
	}
	return CountyRecord{Name: name, Quantity: quantity, KgPerHour: flow}, nil
}

func (t *CountyTable) numericCell(row []string, county, column string) (float64, error) {
	idx, ok := t.columns[column]
	if !ok {
		return 0, t.missingColumn(column)
	}
	if idx >= len(row) {
		return 0, Errorf(ErrSchema, "value in %q for county %q is missing", column, county)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[idx]), ",", ""), 64)
	if err != nil {
		return 0, Errorf(ErrSchema, "value in %q for county %q is not a number", column, county)
	}
	return v, nil
}

func (t *CountyTable) missingColumn(column string) error {
	return Errorf(ErrSchema, "column %q not found in the dataset", column)
}

func normalizeCountyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
