package coupler

import (
	"fmt"
	"slices"

	"github.com/goliatone/go-cassie/pkg/generate"
	"github.com/goliatone/go-cassie/pkg/naming"
)

// Component names this generator in errors and logs.
const Component = "coupler"

// Config enumerates every coupler option. Start from DefaultConfig and set
// the required fields; the zero value is not a usable configuration.
type Config struct {
	// Models and Scenarios span the generated product. Each must be unique.
	Models    []string
	Scenarios []string

	// OutputDir receives "{model}_{scenario}_{i}.cfg". Required. It is not
	// created by the generator.
	OutputDir string

	// RunsPerConfig is the number of runs per model/scenario pair. Required;
	// zero produces no files.
	RunsPerConfig int

	// ModelInterfaceJar is the GCAM ModelInterface JAR path. Required.
	ModelInterfaceJar string
	// DBXMLLib is the DBXML library location. Required.
	DBXMLLib string
	// InputDir defaults to "./input-data".
	InputDir string
	// RegionConfig defaults to "rgn32".
	RegionConfig string

	Xanthos XanthosConfig
	Fldgen  FldgenConfig
}

// XanthosConfig controls the XanthosComponent section.
type XanthosConfig struct {
	// Enabled defaults to true.
	Enabled bool
	// ConfigDir holds the Xanthos .ini files. Required when Enabled.
	ConfigDir string
	// MPIWeight defaults to 2.0.
	MPIWeight float64
	// Abbreviations prefix the project name; all unset by default.
	Abbreviations naming.Abbreviations
}

// FldgenConfig controls the FldgenComponent section.
type FldgenConfig struct {
	// Enabled defaults to true.
	Enabled bool
	// NGrids defaults to 1.
	NGrids int
	// StartYear defaults to 1861.
	StartYear int
	// ThroughYear defaults to 2099 and must not precede StartYear.
	ThroughYear int
	// MPIWeight defaults to 10.0.
	MPIWeight float64
	// LoadPackages defaults to false.
	LoadPackages bool
	// PackageDir defaults to ".".
	PackageDir string
	// EmulatorDir holds "fldgen-{model}.rds". Required when Enabled.
	EmulatorDir string
	// TgavDir holds "fldgen-{model}_{scenario}.csv.gz". Required when Enabled.
	TgavDir string
}

// DefaultConfig returns a Config carrying every documented default.
func DefaultConfig() Config {
	return Config{
		InputDir:     "./input-data",
		RegionConfig: "rgn32",
		Xanthos: XanthosConfig{
			Enabled:   true,
			MPIWeight: 2.0,
		},
		Fldgen: FldgenConfig{
			Enabled:     true,
			NGrids:      1,
			StartYear:   1861,
			ThroughYear: 2099,
			MPIWeight:   10.0,
			PackageDir:  ".",
		},
	}
}

// Years returns the number of years fldgen generates, inclusive of both ends.
func (f FldgenConfig) Years() int {
	return f.ThroughYear - f.StartYear + 1
}

// Validate checks the configuration without touching the filesystem.
func (c Config) Validate() error {
	if err := generate.UniqueNames(Component, "Models", c.Models); err != nil {
		return err
	}
	if err := generate.UniqueNames(Component, "Scenarios", c.Scenarios); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return generate.Missing(Component, "OutputDir", "")
	}
	if c.RunsPerConfig < 0 {
		return generate.Invalid(Component, "RunsPerConfig", "must not be negative")
	}
	if c.ModelInterfaceJar == "" {
		return generate.Missing(Component, "ModelInterfaceJar", "")
	}
	if c.DBXMLLib == "" {
		return generate.Missing(Component, "DBXMLLib", "")
	}
	if c.InputDir == "" {
		return generate.Missing(Component, "InputDir", "")
	}
	if c.RegionConfig == "" {
		return generate.Missing(Component, "RegionConfig", "")
	}

	if c.Xanthos.Enabled {
		if c.Xanthos.ConfigDir == "" {
			return generate.Missing(Component, "Xanthos.ConfigDir", "required when Xanthos.Enabled is true")
		}
		if c.Xanthos.MPIWeight < 0 {
			return generate.Invalid(Component, "Xanthos.MPIWeight", "must not be negative")
		}
	}

	if c.Fldgen.Enabled {
		f := c.Fldgen
		switch {
		case f.EmulatorDir == "":
			return generate.Missing(Component, "Fldgen.EmulatorDir", "required when Fldgen.Enabled is true")
		case f.TgavDir == "":
			return generate.Missing(Component, "Fldgen.TgavDir", "required when Fldgen.Enabled is true")
		case f.PackageDir == "":
			return generate.Missing(Component, "Fldgen.PackageDir", "required when Fldgen.Enabled is true")
		case f.NGrids < 1:
			return generate.Invalid(Component, "Fldgen.NGrids", "must be at least 1")
		case f.ThroughYear < f.StartYear:
			return generate.Invalid(Component, "Fldgen.ThroughYear", "must not precede Fldgen.StartYear")
		case f.MPIWeight < 0:
			return generate.Invalid(Component, "Fldgen.MPIWeight", "must not be negative")
		}
		for _, model := range c.Models {
			if _, err := AlphaCoefficient(model); err != nil {
				return err
			}
		}
	}
	return c.validateValues()
}

// validateValues rejects pass-through strings the .cfg encoding cannot carry.
func (c Config) validateValues() error {
	type value struct{ field, text string }
	values := []value{
		{"ModelInterfaceJar", c.ModelInterfaceJar},
		{"DBXMLLib", c.DBXMLLib},
		{"InputDir", c.InputDir},
		{"RegionConfig", c.RegionConfig},
		{"Xanthos.ConfigDir", c.Xanthos.ConfigDir},
		{"Fldgen.PackageDir", c.Fldgen.PackageDir},
		{"Fldgen.EmulatorDir", c.Fldgen.EmulatorDir},
		{"Fldgen.TgavDir", c.Fldgen.TgavDir},
	}
	for _, model := range c.Models {
		values = append(values, value{"Models", model})
	}
	for _, scenario := range c.Scenarios {
		values = append(values, value{"Scenarios", scenario})
	}
	for _, v := range values {
		if _, err := quoteValue(v.text); err != nil {
			return generate.Invalid(Component, v.field, fmt.Sprintf("%q %v", v.text, err))
		}
	}
	return nil
}

func (c Config) clone() Config {
	out := c
	out.Models = slices.Clone(c.Models)
	out.Scenarios = slices.Clone(c.Scenarios)
	out.Xanthos.Abbreviations = c.Xanthos.Abbreviations.Clone()
	return out
}
