// Package seed loads the sector and company reference data used to populate a fresh database.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed companies.yaml
var defaultSeed []byte

// Company is a company row to seed
type Company struct {
	Ticker string `yaml:"ticker"`
	Name   string `yaml:"name"`
	Sector string `yaml:"sector"`
}

// Data is the full seed document
type Data struct {
	Sectors   []string  `yaml:"sectors"`
	Companies []Company `yaml:"companies"`
}

// Default returns the embedded seed data
func Default() (*Data, error) {
	return Parse(defaultSeed)
}

// LoadFile reads seed data from a YAML file
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a seed document
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that every company has a ticker, a name and a known sector
func (d *Data) Validate() error {
	sectors := make(map[string]bool, len(d.Sectors))
	for _, s := range d.Sectors {
		sectors[s] = true
	}

	tickers := make(map[string]bool, len(d.Companies))
	for i, c := range d.Companies {
		switch {
		case strings.TrimSpace(c.Ticker) == "":
			return fmt.Errorf("company %d: ticker is required", i)
		case strings.TrimSpace(c.Name) == "":
			return fmt.Errorf("company %s: name is required", c.Ticker)
		case !sectors[c.Sector]:
			return fmt.Errorf("company %s: unknown sector %q", c.Ticker, c.Sector)
		case tickers[c.Ticker]:
			return fmt.Errorf("company %s: duplicate ticker", c.Ticker)
		}
		tickers[c.Ticker] = true
	}
	return nil
}
