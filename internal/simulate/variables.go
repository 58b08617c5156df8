package simulate

// Normal operating ranges for the sampled process inputs. Means and standard
// deviations mirror the plant's historian statistics for steady-state
// operation; the blend percentages are constrained so that bauxite closes
// the composition to 100%.
const (
	limestoneFeedRateMean = 78.0
	limestoneFeedRateStd  = 1.5

	clayFeedRateMean = 16.0
	clayFeedRateStd  = 1.0

	ironOreFeedRateMean = 3.5
	ironOreFeedRateStd  = 0.3

	rawMealFeedRateMean = 175.0
	rawMealFeedRateStd  = 5.0

	fuelFeedRateMean = 9.5
	fuelFeedRateStd  = 0.3

	fuelAltSubstitutionMean = 15.0
	fuelAltSubstitutionStd  = 2.0

	kilnHoodPressureMean = -6.0
	kilnHoodPressureStd  = 0.5

	kilnBurnerAirFlowMean = 25000.0
	kilnBurnerAirFlowStd  = 500.0

	clinkerFeedRateMean = 110.0
	clinkerFeedRateStd  = 3.0

	gypsumFeedRateMean = 5.5
	gypsumFeedRateStd  = 0.2

	millRecirculationMean = 55.0
	millRecirculationStd  = 5.0

	kilnMainDriveCurrentMean = 200.0
	kilnMainDriveCurrentStd  = 5.0
)

// Noise levels for the derived KPIs. The specific electrical energy is a
// pure ratio and carries no noise term of its own.
const (
	lsfNoiseStd           = 0.5
	freeLimeNoiseStd      = 0.1
	thermalEnergyNoiseStd = 10.0
	noxNoiseStd           = 20.0
	millPowerNoiseStd     = 50.0
	finenessNoiseStd      = 50.0
)

// Header returns the finalized column names in canonical order. The names
// are storage-safe (BigQuery compatible): percent signs become "pct" and
// slashes become "per".
func Header() []string {
	return []string{
		"timestamp",
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
		"clinker_feed_rate_tph",
		"gypsum_feed_rate_tph",
		"mill_recirculation_ratio_pct",
		"raw_meal_lsf_ratio",
		"clinker_free_lime_pct",
		"kiln_specific_thermal_energy_kcal_per_kg_clinker",
		"kiln_exit_nox_emissions_mg_per_nm3",
		"mill_motor_power_draw_kW",
		"mill_specific_electrical_energy_kwh_per_ton_cement",
		"cement_fineness_blaine_cm2_per_g",
	}
}
