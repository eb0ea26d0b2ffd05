// Package config defines the data structures related to configuration and
// includes functions for loading the scenario file and turning its blocks
// into engine inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/lachho/property-sub000/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the property engine CLI.
type Configuration struct {
	Scenarios []Scenario
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Scenario groups the calculations to run for one what-if case. Every block
// is optional. StartDate anchors mortgage payoff dates when the mortgage
// block does not carry its own.
type Scenario struct {
	Name            string
	Active          bool
	StartDate       string                             `yaml:"startDate,omitempty"`
	Projection      *validation.ProjectionRequest      `yaml:"projection,omitempty"`
	Portfolio       *validation.PortfolioRequest       `yaml:"portfolio,omitempty"`
	Mortgage        *validation.MortgageRequest        `yaml:"mortgage,omitempty"`
	Borrowing       *validation.BorrowingRequest       `yaml:"borrowing,omitempty"`
	NegativeGearing *validation.NegativeGearingRequest `yaml:"negativeGearing,omitempty"`
}

// Empty reports whether the scenario has no calculation blocks.
func (s Scenario) Empty() bool {
	return s.Projection == nil && s.Portfolio == nil && s.Mortgage == nil &&
		s.Borrowing == nil && s.NegativeGearing == nil
}

// Validate checks every block in the scenario. The returned error wraps
// validation.Errors with the field paths prefixed by block name.
func (s Scenario) Validate() error {
	var all validation.Errors
	check := func(block string, req any) error {
		err := validation.Struct(req)
		if err == nil {
			return nil
		}
		verrs, ok := validation.AsErrors(err)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			fe.Field = block + "." + fe.Field
			all = append(all, fe)
		}
		return nil
	}

	blocks := []struct {
		name string
		req  any
		set  bool
	}{
		{"projection", s.Projection, s.Projection != nil},
		{"portfolio", s.Portfolio, s.Portfolio != nil},
		{"mortgage", s.Mortgage, s.Mortgage != nil},
		{"borrowing", s.Borrowing, s.Borrowing != nil},
		{"negativeGearing", s.NegativeGearing, s.NegativeGearing != nil},
	}
	for _, b := range blocks {
		if !b.set {
			continue
		}
		if err := check(b.name, b.req); err != nil {
			return fmt.Errorf("scenario %q %s: %w", s.Name, b.name, err)
		}
	}

	if s.StartDate != "" {
		if _, err := ParseStartDate(s.StartDate); err != nil {
			all = append(all, validation.FieldError{
				Field:   "startDate",
				Tag:     "datetime",
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(all) > 0 {
		return fmt.Errorf("scenario %q: %w", s.Name, all)
	}
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads the YAML-formatted configuration from r,
// as uploaded through the HTTP API.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills the output format and assigns IDs to portfolio
// properties that lack one.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Portfolio != nil {
			AssignPropertyIDs(c.Scenarios[i].Portfolio)
		}
	}
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios configured - nothing will be calculated")
	}

	seen := make(map[string]bool)
	for _, s := range c.Scenarios {
		key := strings.ToLower(s.Name)
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", s.Name))
		}
		seen[key] = true

		if !s.Active {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is inactive and will be skipped", s.Name))
			continue
		}
		if s.Empty() {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no calculations configured", s.Name))
		}
		if s.Projection != nil && s.Projection.HorizonYears != nil && *s.Projection.HorizonYears > constants.WarnHorizonYears {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' projection horizon of %d years exceeds %d years",
				s.Name, *s.Projection.HorizonYears, constants.WarnHorizonYears))
		}
		if s.Portfolio != nil && s.Portfolio.HorizonYears != nil && *s.Portfolio.HorizonYears > constants.WarnHorizonYears {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' portfolio horizon of %d years exceeds %d years",
				s.Name, *s.Portfolio.HorizonYears, constants.WarnHorizonYears))
		}
	}

	return warnings
}
