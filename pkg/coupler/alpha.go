package coupler

import (
	"sort"

	"github.com/goliatone/go-cassie/pkg/generate"
)

// alphaTable maps GCM names to the Dirichlet coefficient sets fldgen loads.
// The coefficient datasets predate the current model names, so some entries
// are stand-ins (HadGEM2-ES borrows NorESM1-M until its own set exists).
// Lookups outside the table fail; entries are never inferred.
var alphaTable = map[string]string{
	"GFDL-ESM2M":   "alpha_gfdl_esm2m",
	"IPSL-CM5A-LR": "alpha_ipsl_cm5a_lr",
	"MIROC5":       "alpha_miroc_esm_chem",
	"HadGEM2-ES":   "alpha_noresm1_m",
}

// AlphaCoefficient returns the coefficient set for model, or an
// *generate.UnknownModelError naming it.
func AlphaCoefficient(model string) (string, error) {
	if alpha, ok := alphaTable[model]; ok {
		return alpha, nil
	}
	return "", &generate.UnknownModelError{
		Component: Component,
		Table:     "alpha coefficient",
		Model:     model,
		Known:     AlphaModels(),
	}
}

// AlphaModels lists the models with a coefficient set, sorted.
func AlphaModels() []string {
	models := make([]string, 0, len(alphaTable))
	for model := range alphaTable {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
