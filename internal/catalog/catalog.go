// Package catalog loads the pathway definitions and county reference tables the
// service is configured with. The defaults are embedded in the binary; a data
// directory with the same layout replaces them at deploy time.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the catalog file name at the root of a data directory.
const File = "pathways.yaml"

//go:embed pathways.yaml data/*.csv
var embedded embed.FS

// Labels are the display units of a pathway's input and metrics.
type Labels struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
	Price  string `yaml:"price" json:"price"`
	GWP    string `yaml:"gwp" json:"gwp"`
}

// Pathway is one configured conversion pathway.
type Pathway struct {
	Name       domain.Pathway
	Title      string
	InputParam string // query parameter and response key for the feedstock quantity
	Product    string // response key for the annual output
	Labels     Labels
	Units      []domain.Unit
	Defaults   domain.Configuration
	Counties   *domain.CountyTable
	CountyFile string // path of the county table within the catalog directory
	CountyKey  string // response key for the county's quantity in its native unit; empty omits it
}

// Catalog is the immutable set of configured pathways.
type Catalog struct {
	pathways map[domain.Pathway]*Pathway
	order    []domain.Pathway
}

type fileFormat struct {
	Pathways []pathwayEntry `yaml:"pathways"`
}

type pathwayEntry struct {
	Name       string               `yaml:"name"`
	Title      string               `yaml:"title"`
	InputParam string               `yaml:"input_param"`
	Product    string               `yaml:"product"`
	Labels     Labels               `yaml:"labels"`
	Defaults   domain.Configuration `yaml:"defaults"`
	County     countyEntry          `yaml:"county"`
}

type countyEntry struct {
	File                string `yaml:"file"`
	QuantityKey         string `yaml:"quantity_key"`
	domain.CountySchema `yaml:",inline"`
}

// Load reads the catalog from dir, or from the embedded defaults when dir is
// empty.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return LoadFS(embedded)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads pathways.yaml and the county tables it references from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, File)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{pathways: make(map[domain.Pathway]*Pathway, len(f.Pathways))}
	for _, entry := range f.Pathways {
		p, err := buildPathway(fsys, entry)
		if err != nil {
			return nil, err
		}
		if _, dup := c.pathways[p.Name]; dup {
			return nil, fmt.Errorf("catalog: pathway %q defined twice", p.Name)
		}
		c.pathways[p.Name] = p
		c.order = append(c.order, p.Name)
	}
	if len(c.order) == 0 {
		return nil, errors.New("catalog: no pathways defined")
	}
	return c, nil
}

func buildPathway(fsys fs.FS, entry pathwayEntry) (*Pathway, error) {
	name, ok := domain.ParsePathway(entry.Name)
	if !ok {
		return nil, fmt.Errorf("catalog: unknown pathway %q", entry.Name)
	}
	if entry.InputParam == "" || entry.Product == "" {
		return nil, fmt.Errorf("catalog: pathway %q needs input_param and product", name)
	}
	if entry.County.QuantityUnit != "" {
		if _, err := domain.Normalize(0, string(entry.County.QuantityUnit), name); err != nil {
			return nil, fmt.Errorf("catalog: pathway %q county quantity_unit: %w", name, err)
		}
	}

	switch key := entry.County.QuantityKey; key {
	case entry.InputParam, entry.Product, "price", "gwp", "county_name":
		return nil, fmt.Errorf("catalog: pathway %q county quantity_key %q collides with another response field", name, key)
	}

	f, err := fsys.Open(entry.County.File)
	if err != nil {
		return nil, fmt.Errorf("catalog: pathway %q county table: %w", name, err)
	}
	defer f.Close()

	counties, err := domain.ReadCountyTable(f, entry.County.CountySchema)
	if err != nil {
		return nil, fmt.Errorf("catalog: pathway %q county table %s: %w", name, entry.County.File, err)
	}

	return &Pathway{
		Name:       name,
		Title:      entry.Title,
		InputParam: entry.InputParam,
		Product:    entry.Product,
		Labels:     entry.Labels,
		Units:      domain.Units(name),
		Defaults:   entry.Defaults,
		Counties:   counties,
		CountyFile: entry.County.File,
		CountyKey:  entry.County.QuantityKey,
	}, nil
}

// Lookup returns the pathway named p.
func (c *Catalog) Lookup(p domain.Pathway) (*Pathway, bool) {
	pw, ok := c.pathways[p]
	return pw, ok
}

// Pathways returns every configured pathway in catalog order.
func (c *Catalog) Pathways() []*Pathway {
	out := make([]*Pathway, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.pathways[name])
	}
	return out
}

// Validate checks every county table and reports all problems together.
func (c *Catalog) Validate() error {
	var errs []error
	for _, p := range c.Pathways() {
		if err := p.Counties.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s counties: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}
