package vision

import (
	"fmt"
	"path"
	"strings"
)

const (
	// KPIFocus is the KPI the kiln controller optimises. The legacy
	// unsanitised name is what the dashboard consumes.
	KPIFocus = "kiln_specific_thermal_energy_Kcal/kg_clinker"

	// FuelRateVariable is the only adjustable the controller recommends on.
	FuelRateVariable = "fuel_feed_rate_tph"

	FuelRateNormalMin = 9.2
	FuelRateNormalMax = 9.8
)

const (
	ActionMaintain = "MAINTAIN"
	ActionDecrease = "DECREASE"
)

// Adjustment is one prescribed setpoint change.
type Adjustment struct {
	Variable string  `json:"variable"`
	Action   string  `json:"action"`
	Value    float64 `json:"value"`
}

// Assessment is the JSON label attached to a reference image, and the shape
// the model is asked to reply with for the live image.
type Assessment struct {
	RecommendationType string       `json:"recommendation_type"`
	KPIFocus           string       `json:"kpi_focus"`
	VisualFinding      string       `json:"visual_finding"`
	SeverityLevel      string       `json:"severity_level"`
	Adjustments        []Adjustment `json:"adjustments"`
	Recommendation     string       `json:"recommendation"`
}

// labelRule pairs a URI predicate with the assessment it yields. Rules are
// evaluated in order; the last rule matches everything.
type labelRule struct {
	matches func(uri string) bool
	label   func(uri string) Assessment
}

func substring(s string) func(string) bool {
	return func(uri string) bool { return strings.Contains(uri, s) }
}

func matchAny(string) bool { return true }

var labelRules = []labelRule{
	{
		matches: substring("kiln_operating_normal"),
		label: func(string) Assessment {
			return Assessment{
				RecommendationType: "KILN_SETPOINT_ADJUSTMENT",
				KPIFocus:           KPIFocus,
				VisualFinding:      "Stable flame, optimal combustion, normal shell temperature distribution.",
				SeverityLevel:      "low",
				Adjustments:        []Adjustment{{Variable: FuelRateVariable, Action: ActionMaintain, Value: 0.0}},
				Recommendation: fmt.Sprintf(
					"The kiln appears to be operating optimally. Continue maintaining the %s between %v and %v tph.",
					FuelRateVariable, FuelRateNormalMin, FuelRateNormalMax),
			}
		},
	},
	{
		matches: substring("kiln_overheating_anomaly_high"),
		label: func(string) Assessment {
			return Assessment{
				RecommendationType: "CRITICAL_ALERT",
				KPIFocus:           KPIFocus,
				VisualFinding:      "Severe, extensive overheating anomaly (large red glowing areas on the shell). High risk of immediate refractory failure and shell damage.",
				SeverityLevel:      "high",
				Adjustments:        []Adjustment{{Variable: FuelRateVariable, Action: ActionDecrease, Value: 0.3}},
				Recommendation: fmt.Sprintf(
					"CRITICAL ALERT: Extensive overheating detected. Immediately decrease the %s by 0.3 tph to prevent catastrophic damage.",
					FuelRateVariable),
			}
		},
	},
	{
		matches: substring("kiln_overheating_anomaly_medium"),
		label: func(string) Assessment {
			return Assessment{
				RecommendationType: "WARNING",
				KPIFocus:           KPIFocus,
				VisualFinding:      "Medium overheating anomaly (isolated, bright red spots on shell). Potential for localized refractory wear.",
				SeverityLevel:      "medium",
				Adjustments:        []Adjustment{{Variable: FuelRateVariable, Action: ActionDecrease, Value: 0.2}},
				Recommendation: fmt.Sprintf(
					"WARNING: Isolated thermal deviation detected. Reduce the %s by 0.2 tph and monitor closely for stabilization.",
					FuelRateVariable),
			}
		},
	},
	{
		// unclassified reference images get a cautious medium label
		matches: matchAny,
		label: func(uri string) Assessment {
			return Assessment{
				RecommendationType: "WARNING",
				KPIFocus:           KPIFocus,
				VisualFinding:      fmt.Sprintf("Unclassified thermal deviation: %s. Requires cautious adjustment.", path.Base(uri)),
				SeverityLevel:      "medium",
				Adjustments:        []Adjustment{{Variable: FuelRateVariable, Action: ActionDecrease, Value: 0.2}},
				Recommendation: fmt.Sprintf(
					"Unclassified visual anomaly detected. As a cautious measure, decrease the %s by 0.2 tph to stabilize the process.",
					FuelRateVariable),
			}
		},
	},
}

// AssessReference labels a reference image URI by the first matching rule.
func AssessReference(uri string) Assessment {
	for _, rule := range labelRules {
		if rule.matches(uri) {
			return rule.label(uri)
		}
	}
	// the catch-all rule makes this unreachable
	panic("vision: no label rule matched")
}
