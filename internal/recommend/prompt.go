package recommend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Target KPI constraints driving the optimization goals.
const (
	FreeLimeTargetMax      = 1.2
	ThermalEnergyTargetMin = 750.0
)

// controllableRange documents one adjustable variable and its normal
// operating window, in the order the prompt presents them.
type controllableRange struct {
	Variable string
	Range    string
}

var controllableRanges = []controllableRange{
	// blending inputs
	{"raw_meal_lsf_ratio", "92.0 - 98.0 Ratio (Primary quality lever, lagged 5h)"},
	{"limestone_feed_rate_pct", "76.0 - 80.0 % (Typical: ~78%. Composition control.)"},
	{"clay_feed_rate_pct", "14.0 - 18.0 % (Typical: ~16%. Composition control.)"},
	{"iron_ore_feed_rate_pct", "3.0 - 4.0 % (Typical: ~3.5%. Composition control.)"},
	{"bauxite_feed_rate_pct", "2.0 - 3.0 % (Typical: ~2.5%. Composition control.)"},
	// pyroprocessing inputs
	{"raw_meal_feed_rate_tph", "170.0 - 180.0 tph (Overall production rate)"},
	{"fuel_feed_rate_tph", "9.2 - 9.8 tph (Primary control for Thermal Energy)"},
	{"fuel_alt_substitution_rate_pct", "15.0 - 25.0 % (Efficiency control)"},
	{"kiln_hood_pressure_mmH2O", "-7.0 to -5.0 mmH2O (Air control, inverse sign)"},
	{"kiln_burner_air_flow_m3/hr", "24000.0 - 26000.0 m3/hr (Combustion control)"},
	{"kiln_main_drive_current_Amp", "190.0 - 210.0 Amp (Used for stabilization/load balance.)"},
}

// SystemInstruction frames the model as the pyroprocessing optimizer and
// pins the output schema.
var SystemInstruction = fmt.Sprintf(
	"You are an elite AI engineer specializing in cement plant Pyroprocessing optimization. "+
		"Analyze the inputs and KPIs, then use your domain knowledge to generate the single best set of prescriptive recommendations. "+
		"Crucially, your recommendations for 'magnitude' MUST be small, safe adjustments that aim to keep the variable within its NORMAL OPERATING RANGE, unless a KPI is critically out of bounds. "+
		"\n\n--- OPTIMIZATION GOALS ---"+
		"\n1. **Primary Goal (Quality):** Maintain Clinker Free Lime (clinker_free_lime_%%) **at or below %.1f%%**. Blending component feed rates are the primary levers for this, as their effect is **lagged (approx. 5 hours)**."+
		"\n2. **Secondary Goal (Energy):** Minimize Specific Thermal Energy (kiln_specific_thermal_energy_Kcal/kg_clinker) **toward or below %.1f Kcal/kg**. Fuel inputs and kiln conditions are the primary controls for this, as their effects are **real-time/non-lagged**."+
		"\n3. **General Constraint:** Do not recommend changes to more than two or three variables simultaneously."+
		"\n\n--- REQUIRED OUTPUT SCHEMA (STRICTLY FOLLOW THIS JSON ARRAY) ---"+
		"[\n { \n \"variable_name\": \"string (MUST be one of the input keys)\", "+
		"\n \"description\": \"string (Detailed, prescriptive reason for the action based on domain knowledge, referencing the current and target state.)\","+
		"\n \"action\": \"string (MUST be INCREASE, DECREASE, or MAINTAIN)\","+
		"\n \"magnitude\": \"number (The specific value to change. Must be 0.0 if action is MAINTAIN.)\" \n }\n]",
	FreeLimeTargetMax, ThermalEnergyTargetMin)

// BuildUserPrompt lays out the predicted KPIs, the current inputs, and the
// normal operating ranges for the model to reason over.
func BuildUserPrompt(currentInputs, predictedKPIs map[string]any) (string, error) {
	kpiJSON, err := json.MarshalIndent(predictedKPIs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal predicted KPIs: %w", err)
	}
	inputJSON, err := json.MarshalIndent(currentInputs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal current inputs: %w", err)
	}

	lines := make([]string, 0, len(controllableRanges))
	for _, r := range controllableRanges {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", r.Variable, r.Range))
	}

	return fmt.Sprintf(
		"Based on the following data, generate the prescriptive recommendations JSON array: "+
			"\n\n--- PREDICTED KPI VALUES ---\n%s"+
			"\n\n--- CURRENT PROCESS INPUTS (All 11 Independent Variables) ---\n%s"+
			"\n\n--- NORMAL OPERATING RANGES FOR CONTROLLABLE VARIABLES ---\n%s"+
			"\n\nNow, generate the JSON output, prioritizing the maintenance of quality and using small, safe magnitudes that respect the Normal Operating Ranges.",
		kpiJSON, inputJSON, strings.Join(lines, "\n")), nil
}
