// Command gendata regenerates the derived Kilogram/hr column of the county
// tables from their quantity columns, using the same unit conversion the API
// applies to request quantities. Run it after editing a quantity column, then
// check the result with cmd/validate.
//
// Usage:
//
//	go run ./cmd/gendata -data-dir internal/catalog
//	go run ./cmd/gendata -data-dir internal/catalog -pathway htl
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "", "catalog directory containing pathways.yaml and the county tables")
	only := flag.String("pathway", "", "regenerate a single pathway's table (default: all)")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -data-dir")
	}

	cat, err := catalog.Load(*dataDir)
	if err != nil {
		return err
	}

	for _, pw := range cat.Pathways() {
		if *only != "" && !strings.EqualFold(*only, string(pw.Name)) {
			continue
		}
		path := filepath.Join(*dataDir, filepath.FromSlash(pw.CountyFile))
		n, err := regenerate(path, pw.Name, pw.Counties.Schema())
		if err != nil {
			return fmt.Errorf("%s: %w", pw.Name, err)
		}
		log.Printf("%s: %d rows written to %s", pw.Name, n, path)
	}
	return nil
}

// regenerate rewrites the flow column of the CSV at path in place, appending
// the column when it is missing. It returns the number of data rows.
func regenerate(path string, p domain.Pathway, schema domain.CountySchema) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("no data rows in %s", path)
	}

	header := records[0]
	qtyIdx := indexOf(header, schema.QuantityColumn)
	if qtyIdx < 0 {
		return 0, fmt.Errorf("column %q not found in %s", schema.QuantityColumn, path)
	}
	flowIdx := indexOf(header, schema.FlowColumn)
	if flowIdx < 0 {
		flowIdx = len(header)
		records[0] = append(header, schema.FlowColumn)
	}

	for i, row := range records[1:] {
		if qtyIdx >= len(row) {
			return 0, fmt.Errorf("line %d: missing %q value", i+2, schema.QuantityColumn)
		}
		qty, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[qtyIdx]), ",", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: %q is not a number", i+2, row[qtyIdx])
		}
		flow, err := domain.Normalize(qty, string(schema.QuantityUnit), p)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", i+2, err)
		}
		for len(row) <= flowIdx {
			row = append(row, "")
		}
		row[flowIdx] = strconv.FormatFloat(flow, 'f', 2, 64)
		records[i+1] = row
	}

	if err := writeCSV(path, records); err != nil {
		return 0, err
	}
	return len(records) - 1, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func writeCSV(path string, records [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			return i
		}
	}
	return -1
}
