package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/credi-research/econ-cli/internal/model"
)

// Catalog is the set of entities and indicators available to batch runs.
type Catalog struct {
	Entities   []model.Entity    `yaml:"entities"`
	Indicators []model.Indicator `yaml:"indicators"`
}

// DefaultCatalog returns the built-in Western Balkans catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Entities: []model.Entity{
			{Name: "Albania", ISO2: "AL", ISO3: "ALB"},
			{Name: "Bosnia and Herzegovina", ISO2: "BA", ISO3: "BIH"},
			{Name: "Kosovo", ISO2: "XK", ISO3: "XKX"},
			{Name: "Montenegro", ISO2: "ME", ISO3: "MNE"},
			{Name: "North Macedonia", ISO2: "MK", ISO3: "MKD"},
			{Name: "Serbia", ISO2: "RS", ISO3: "SRB"},
		},
		Indicators: []model.Indicator{
			{Name: "GDP (current US$)", Code: "NY.GDP.MKTP.CD"},
			{Name: "GDP per capita (current US$)", Code: "NY.GDP.PCAP.CD"},
			{Name: "Inflation, consumer prices (annual %)", Code: "FP.CPI.TOTL.ZG"},
			{Name: "Unemployment, total (% of labor force)", Code: "SL.UEM.TOTL.ZS"},
		},
	}
}

// LoadCatalog reads a catalog from the given YAML file, or returns the
// built-in default when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, eris.Wrapf(err, "config: read catalog %s", path)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, eris.Wrapf(err, "config: parse catalog %s", path)
	}
	if len(cat.Entities) == 0 {
		return Catalog{}, eris.Errorf("config: catalog %s has no entities", path)
	}
	if len(cat.Indicators) == 0 {
		cat.Indicators = DefaultCatalog().Indicators
	}

	return cat, nil
}

// Indicator looks up an indicator by code. The bool reports whether it was
// found.
func (c Catalog) Indicator(code string) (model.Indicator, bool) {
	for _, ind := range c.Indicators {
		if ind.Code == code {
			return ind, true
		}
	}
	return model.Indicator{}, false
}
