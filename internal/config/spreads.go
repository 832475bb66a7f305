package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"spreadcli/internal/errors"
)

// SourceFiles names one source's raw CSV exports for a spread. Either file may
// be absent; a missing source simply contributes nothing to the merge.
type SourceFiles struct {
	Trades string `yaml:"trades"`
	Orders string `yaml:"orders"`
}

// SpreadDefinition describes one logical spread to merge: its two legs, the
// spread coefficients, the transition threshold and the raw input files per
// source
type SpreadDefinition struct {
	Name         string      `yaml:"name" validate:"required"`
	Legs         []string    `yaml:"legs" validate:"required,len=2,dive,required"`
	Coefficients []float64   `yaml:"coefficients"`
	NS           *int        `yaml:"n_s"`
	Real         SourceFiles `yaml:"real"`
	Synthetic    SourceFiles `yaml:"synthetic"`
}

// EffectiveNS returns the spread's transition threshold, falling back to the
// configured default when unset
func (s SpreadDefinition) EffectiveNS(defaultNS int) int {
	if s.NS != nil {
		return *s.NS
	}
	return defaultNS
}

// spreadsFile is the on-disk shape of a spread definitions file
type spreadsFile struct {
	Spreads []SpreadDefinition `yaml:"spreads"`
}

// LoadSpreads reads and validates spread definitions from a YAML file
func LoadSpreads(path string) ([]SpreadDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("read spreads file %s", path), err)
	}

	var file spreadsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("parse spreads file %s", path), err)
	}
	if len(file.Spreads) == 0 {
		return nil, errors.NewConfigError(fmt.Sprintf("spreads file %s defines no spreads", path), nil)
	}

	for i, spread := range file.Spreads {
		if err := validate.Struct(spread); err != nil {
			return nil, errors.NewConfigError(
				fmt.Sprintf("spread %d (%q) invalid", i, spread.Name), err)
		}
		if spread.NS != nil && *spread.NS < 0 {
			return nil, errors.NewConfigError(
				fmt.Sprintf("spread %q: n_s must be >= 0", spread.Name), nil)
		}
		if len(spread.Coefficients) > 0 && len(spread.Coefficients) != len(spread.Legs) {
			return nil, errors.NewConfigError(
				fmt.Sprintf("spread %q: %d coefficients for %d legs",
					spread.Name, len(spread.Coefficients), len(spread.Legs)), nil)
		}
	}
	return file.Spreads, nil
}
