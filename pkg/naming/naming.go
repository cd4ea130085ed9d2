// Package naming derives run identities, run-name prefixes, and output paths
// shared by every generator.
package naming

import (
	"strconv"
	"strings"
)

// Identity names one generated run: a model, a scenario, and a zero-based
// index distinguishing repeated configurations of the same pair.
type Identity struct {
	Model    string `json:"model"`
	Scenario string `json:"scenario"`
	Index    int    `json:"index"`
}

// Abbreviations are the optional sub-model abbreviations that prefix run
// names. A nil field is unset; an empty string is set and still contributes
// its underscore.
type Abbreviations struct {
	PET    *string `json:"pet,omitempty" yaml:"pet,omitempty"`
	Runoff *string `json:"runoff,omitempty" yaml:"runoff,omitempty"`
	Router *string `json:"router,omitempty" yaml:"router,omitempty"`
}

// Abbrev returns a set abbreviation.
func Abbrev(value string) *string {
	return &value
}

// Clone returns a copy that shares no pointers with a.
func (a Abbreviations) Clone() Abbreviations {
	clone := func(v *string) *string {
		if v == nil {
			return nil
		}
		return Abbrev(*v)
	}
	return Abbreviations{PET: clone(a.PET), Runoff: clone(a.Runoff), Router: clone(a.Router)}
}

// Prefix concatenates the set abbreviations in PET, runoff, router order,
// each followed by an underscore. With nothing set it returns "".
func (a Abbreviations) Prefix() string {
	var b strings.Builder
	for _, abbrev := range []*string{a.PET, a.Runoff, a.Router} {
		if abbrev == nil {
			continue
		}
		b.WriteString(*abbrev)
		b.WriteByte('_')
	}
	return b.String()
}

// ProjectName returns "{prefix}{model}_{scenario}".
func ProjectName(prefix, model, scenario string) string {
	return prefix + model + "_" + scenario
}

// OutputName returns "{project}_{index}".
func OutputName(project string, index int) string {
	return project + "_" + strconv.Itoa(index)
}

// Join appends name to dir with a single separator and no further cleaning,
// so caller-supplied directories reach the output verbatim ("./out" stays
// "./out"). Seeds are derived from these strings, so they must not be
// normalised.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// ScenarioMajor enumerates scenario → model → index.
func ScenarioMajor(models, scenarios []string, runs int) []Identity {
	out := make([]Identity, 0, len(models)*len(scenarios)*max(runs, 0))
	for _, scenario := range scenarios {
		for _, model := range models {
			for i := 0; i < runs; i++ {
				out = append(out, Identity{Model: model, Scenario: scenario, Index: i})
			}
		}
	}
	return out
}

// ModelMajor enumerates model → scenario → index.
func ModelMajor(models, scenarios []string, runs int) []Identity {
	out := make([]Identity, 0, len(models)*len(scenarios)*max(runs, 0))
	for _, model := range models {
		for _, scenario := range scenarios {
			for i := 0; i < runs; i++ {
				out = append(out, Identity{Model: model, Scenario: scenario, Index: i})
			}
		}
	}
	return out
}
