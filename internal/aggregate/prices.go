package aggregate

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// UnitPrice is one advisory price entry. The table is reference data, not a
// certified estimating source.
type UnitPrice struct {
	Price decimal.Decimal `yaml:"price" json:"price"`
	Unit  string          `yaml:"unit" json:"unit"` // What the price is per: "m3", "m2", "each", "t"
}

// PriceTable maps unit-price keys to advisory unit prices
type PriceTable struct {
	Currency string               `yaml:"currency" json:"currency"`
	Prices   map[string]UnitPrice `yaml:"prices" json:"prices"`
}

// Lookup returns the price entry for a key
func (t *PriceTable) Lookup(key string) (UnitPrice, bool) {
	if t == nil || t.Prices == nil {
		return UnitPrice{}, false
	}
	p, ok := t.Prices[key]
	return p, ok
}

// DefaultPrices returns a small built-in table with reference prices for
// the default rule catalog, in CNY. These are ballpark market figures and
// exist so a run without a price file still produces a cost column.
func DefaultPrices() *PriceTable {
	mk := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	return &PriceTable{
		Currency: "CNY",
		Prices: map[string]UnitPrice{
			"concrete_column_c30": {Price: mk("680"), Unit: "m3"},
			"concrete_beam_c30":   {Price: mk("650"), Unit: "m3"},
			"floor_slab_c30":      {Price: mk("95"), Unit: "m2"},
			"shear_wall_c30":      {Price: mk("120"), Unit: "m2"},
			"masonry_wall":        {Price: mk("75"), Unit: "m2"},
			"foundation_c30":      {Price: mk("620"), Unit: "m3"},
			"rebar_hrb400":        {Price: mk("12.5"), Unit: "each"},
			"steel_q355":          {Price: mk("5600"), Unit: "each"},
			"door_standard":       {Price: mk("850"), Unit: "each"},
			"window_standard":     {Price: mk("420"), Unit: "each"},
			"bored_pile_c30":      {Price: mk("1800"), Unit: "each"},
		},
	}
}

// LoadPrices reads a YAML price table from disk. An empty path returns the
// built-in defaults; file entries are merged over the defaults.
func LoadPrices(path string) (*PriceTable, error) {
	if path == "" {
		return DefaultPrices(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}

	var file PriceTable
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prices: %w", err)
	}

	table := DefaultPrices()
	if file.Currency != "" {
		table.Currency = file.Currency
	}
	for k, v := range file.Prices {
		table.Prices[k] = v
	}
	return table, nil
}
