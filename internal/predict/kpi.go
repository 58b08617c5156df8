package predict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// KPI describes one regression target: the legacy response key the
// dashboard expects, a storage-safe slug for cache keys, and the exact
// feature set the deployed model was trained on.
type KPI struct {
	Name     string
	Slug     string
	Features []string

	schema *jsonschema.Schema
}

// FreeLime is the clinker free lime regression target.
var FreeLime = mustKPI(KPI{
	Name: "clinker_free_lime_%",
	Slug: "clinker_free_lime_pct",
	Features: []string{
		"raw_meal_lsf_ratio",
		"limestone_feed_rate_pct",
		"clay_feed_rate_pct",
		"iron_ore_feed_rate_pct",
		"bauxite_feed_rate_pct",
		"raw_meal_feed_rate_tph",
		"fuel_feed_rate_tph",
		"fuel_alt_substitution_rate_pct",
		"kiln_hood_pressure_mmH2O",
		"kiln_burner_air_flow_m3_hr",
		"kiln_main_drive_current_amp",
	},
})

// ThermalEnergy is the kiln specific thermal energy regression target.
var ThermalEnergy = mustKPI(KPI{
	Name: "kiln_specific_thermal_energy_Kcal/kg_clinker",
	Slug: "kiln_specific_thermal_energy_kcal_per_kg_clinker",
	Features: []string{
		"raw_meal_feed_rate_tph",
		"fuel_feed_rate_tph",
		"fuel_alt_substitution_rate_pct",
		"kiln_hood_pressure_mmH2O",
		"kiln_burner_air_flow_m3_hr",
		"kiln_main_drive_current_amp",
	},
})

// mustKPI compiles the request schema: a JSON object carrying every feature
// as a number.
func mustKPI(k KPI) KPI {
	props := map[string]any{}
	for _, f := range k.Features {
		props[f] = map[string]any{"type": "number"}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   k.Features,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("marshal schema for %s: %v", k.Name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(k.Slug+".schema.json", strings.NewReader(string(raw))); err != nil {
		panic(fmt.Sprintf("add schema for %s: %v", k.Name, err))
	}
	k.schema = compiler.MustCompile(k.Slug + ".schema.json")
	return k
}

// Validate checks a decoded request body against the feature schema.
func (k KPI) Validate(body any) error {
	return k.schema.Validate(body)
}

// Missing lists the required features absent (or null) in the body.
func (k KPI) Missing(body map[string]any) []string {
	var missing []string
	for _, f := range k.Features {
		if v, ok := body[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// Instance extracts the feature vector in model order. Validate must have
// passed first so every feature is present as a number.
func (k KPI) Instance(body map[string]any) map[string]float64 {
	instance := make(map[string]float64, len(k.Features))
	for _, f := range k.Features {
		if v, ok := body[f].(float64); ok {
			instance[f] = v
		}
	}
	return instance
}
