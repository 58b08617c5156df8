package simulate

import (
	"math"
	"math/rand"
	"time"
)

// Config controls one generation run.
type Config struct {
	// Rows is the number of readings to produce.
	Rows int `envconfig:"DATAGEN_ROWS" default:"50000"`
	// IntervalMinutes is the spacing between consecutive timestamps.
	IntervalMinutes int `envconfig:"DATAGEN_INTERVAL_MINUTES" default:"15"`
	// Seed fixes the random source. Same seed, same Now: identical output.
	Seed int64 `envconfig:"DATAGEN_SEED" default:"42"`
	// OutPath is where the CSV lands.
	OutPath string `envconfig:"DATAGEN_OUT" default:"synthetic_cement_plant_data.csv"`

	// Now anchors the timestamp column. Zero means wall-clock time.
	Now time.Time `ignored:"true"`
}

// Dataset is the fully materialised table, one slice per column. Timestamps
// run backward from the generation instant.
type Dataset struct {
	Timestamps []time.Time

	LimestoneFeedRatePct   []float64
	ClayFeedRatePct        []float64
	IronOreFeedRatePct     []float64
	BauxiteFeedRatePct     []float64
	RawMealFeedRateTph     []float64
	FuelFeedRateTph        []float64
	FuelAltSubstitutionPct []float64
	KilnHoodPressure       []float64
	KilnBurnerAirFlow      []float64
	KilnMainDriveCurrent   []float64
	ClinkerFeedRateTph     []float64
	GypsumFeedRateTph      []float64
	MillRecirculationPct   []float64

	RawMealLSFRatio      []float64
	ClinkerFreeLimePct   []float64
	KilnThermalEnergy    []float64
	KilnExitNOx          []float64
	MillMotorPowerDrawKW []float64
	MillElectricalEnergy []float64
	CementFinenessBlaine []float64

	// Scenarios records which rows each anomaly scenario perturbed, in the
	// order the scenarios were applied.
	Scenarios []ScenarioReport

	rounded bool
}

// ScenarioReport names an applied anomaly scenario and the rows it hit.
type ScenarioReport struct {
	Name string
	Rows []int
}

// Len returns the number of readings.
func (d *Dataset) Len() int { return len(d.Timestamps) }

// Generate produces the synthetic table. The random source is consumed in a
// fixed order: base variables column by column in table order, then KPI
// noise in dependency order, then for each scenario its row selection
// followed by its magnitude draws. Values are left unrounded; call Round
// before writing.
func Generate(cfg Config) *Dataset {
	n := cfg.Rows
	rng := rand.New(rand.NewSource(cfg.Seed))

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	interval := time.Duration(cfg.IntervalMinutes) * time.Minute

	d := &Dataset{Timestamps: make([]time.Time, n)}
	for i := 0; i < n; i++ {
		d.Timestamps[i] = now.Add(-time.Duration(i) * interval)
	}

	d.LimestoneFeedRatePct = normalColumn(rng, n, limestoneFeedRateMean, limestoneFeedRateStd)
	d.ClayFeedRatePct = normalColumn(rng, n, clayFeedRateMean, clayFeedRateStd)
	d.IronOreFeedRatePct = normalColumn(rng, n, ironOreFeedRateMean, ironOreFeedRateStd)

	// Bauxite closes the blend composition to exactly 100%.
	d.BauxiteFeedRatePct = make([]float64, n)
	for i := 0; i < n; i++ {
		d.BauxiteFeedRatePct[i] = 100 - (d.LimestoneFeedRatePct[i] + d.ClayFeedRatePct[i] + d.IronOreFeedRatePct[i])
	}

	d.RawMealFeedRateTph = normalColumn(rng, n, rawMealFeedRateMean, rawMealFeedRateStd)
	d.FuelFeedRateTph = normalColumn(rng, n, fuelFeedRateMean, fuelFeedRateStd)
	d.FuelAltSubstitutionPct = normalColumn(rng, n, fuelAltSubstitutionMean, fuelAltSubstitutionStd)
	d.KilnHoodPressure = normalColumn(rng, n, kilnHoodPressureMean, kilnHoodPressureStd)
	d.KilnBurnerAirFlow = normalColumn(rng, n, kilnBurnerAirFlowMean, kilnBurnerAirFlowStd)
	d.ClinkerFeedRateTph = normalColumn(rng, n, clinkerFeedRateMean, clinkerFeedRateStd)
	d.GypsumFeedRateTph = normalColumn(rng, n, gypsumFeedRateMean, gypsumFeedRateStd)
	d.MillRecirculationPct = normalColumn(rng, n, millRecirculationMean, millRecirculationStd)
	d.KilnMainDriveCurrent = normalColumn(rng, n, kilnMainDriveCurrentMean, kilnMainDriveCurrentStd)

	deriveKPIs(d, rng)
	injectAnomalies(d, rng)

	return d
}

// deriveKPIs fills the dependent columns in dependency order. Each KPI is
// its affine mean formula over already-filled columns plus fresh Gaussian
// noise, except the specific electrical energy which is a pure ratio.
func deriveKPIs(d *Dataset, rng *rand.Rand) {
	n := d.Len()

	d.RawMealLSFRatio = make([]float64, n)
	for i := 0; i < n; i++ {
		d.RawMealLSFRatio[i] = lsfMean(d.LimestoneFeedRatePct[i]) + rng.NormFloat64()*lsfNoiseStd
	}

	d.ClinkerFreeLimePct = make([]float64, n)
	for i := 0; i < n; i++ {
		d.ClinkerFreeLimePct[i] = freeLimeMean(d.FuelFeedRateTph[i], d.RawMealLSFRatio[i]) + rng.NormFloat64()*freeLimeNoiseStd
	}

	d.KilnThermalEnergy = make([]float64, n)
	for i := 0; i < n; i++ {
		d.KilnThermalEnergy[i] = thermalEnergyMean(d.RawMealFeedRateTph[i], d.FuelAltSubstitutionPct[i]) + rng.NormFloat64()*thermalEnergyNoiseStd
	}

	d.KilnExitNOx = make([]float64, n)
	for i := 0; i < n; i++ {
		d.KilnExitNOx[i] = noxMean(d.FuelFeedRateTph[i], d.FuelAltSubstitutionPct[i]) + rng.NormFloat64()*noxNoiseStd
	}

	d.MillMotorPowerDrawKW = make([]float64, n)
	for i := 0; i < n; i++ {
		d.MillMotorPowerDrawKW[i] = millPowerMean(d.ClinkerFeedRateTph[i], d.MillRecirculationPct[i], d.ClinkerFreeLimePct[i]) + rng.NormFloat64()*millPowerNoiseStd
	}

	d.CementFinenessBlaine = make([]float64, n)
	for i := 0; i < n; i++ {
		d.CementFinenessBlaine[i] = finenessMean(d.ClinkerFeedRateTph[i], d.MillMotorPowerDrawKW[i]) + rng.NormFloat64()*finenessNoiseStd
	}

	d.MillElectricalEnergy = make([]float64, n)
	for i := 0; i < n; i++ {
		d.MillElectricalEnergy[i] = d.MillMotorPowerDrawKW[i] / (d.ClinkerFeedRateTph[i] + d.GypsumFeedRateTph[i])
	}
}

// Mean formulas for the derived KPIs, shared between the baseline pass and
// the anomaly overrides.

func lsfMean(limestonePct float64) float64 {
	return 95 + (limestonePct-limestoneFeedRateMean)*2.5
}

func freeLimeMean(fuelTph, lsf float64) float64 {
	return 1.0 - (fuelTph-fuelFeedRateMean)*0.5 + (lsf-95)*0.4
}

func thermalEnergyMean(rawMealTph, fuelAltPct float64) float64 {
	return 750 + (rawMealTph-rawMealFeedRateMean)*5 - (fuelAltPct-fuelAltSubstitutionMean)*2
}

func noxMean(fuelTph, fuelAltPct float64) float64 {
	return 400 + (fuelTph-fuelFeedRateMean)*50 + (fuelAltPct-fuelAltSubstitutionMean)*3
}

func millPowerMean(clinkerTph, recircPct, freeLime float64) float64 {
	return 4800 + (clinkerTph-clinkerFeedRateMean)*20 + (recircPct-millRecirculationMean)*10 - (freeLime-1.0)*50
}

func finenessMean(clinkerTph, millPowerKW float64) float64 {
	return 3600 - (clinkerTph-clinkerFeedRateMean)*15 - (millPowerKW-4800)*0.1
}

func normalColumn(rng *rand.Rand, n int, mean, std float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = mean + rng.NormFloat64()*std
	}
	return col
}

// Round truncates every numeric column to two decimal places, matching the
// precision of the persisted file.
func (d *Dataset) Round() {
	if d.rounded {
		return
	}
	for _, col := range d.numericColumns() {
		for i, v := range col.values {
			col.values[i] = math.Round(v*100) / 100
		}
	}
	d.rounded = true
}

type column struct {
	name   string
	values []float64
}

// numericColumns lists the float columns in canonical output order
// (timestamp excluded).
func (d *Dataset) numericColumns() []column {
	return []column{
		{"limestone_feed_rate_pct", d.LimestoneFeedRatePct},
		{"clay_feed_rate_pct", d.ClayFeedRatePct},
		{"iron_ore_feed_rate_pct", d.IronOreFeedRatePct},
		{"bauxite_feed_rate_pct", d.BauxiteFeedRatePct},
		{"raw_meal_feed_rate_tph", d.RawMealFeedRateTph},
		{"fuel_feed_rate_tph", d.FuelFeedRateTph},
		{"fuel_alt_substitution_rate_pct", d.FuelAltSubstitutionPct},
		{"kiln_hood_pressure_mmH2O", d.KilnHoodPressure},
		{"kiln_burner_air_flow_m3_hr", d.KilnBurnerAirFlow},
		{"kiln_main_drive_current_amp", d.KilnMainDriveCurrent},
		{"clinker_feed_rate_tph", d.ClinkerFeedRateTph},
		{"gypsum_feed_rate_tph", d.GypsumFeedRateTph},
		{"mill_recirculation_ratio_pct", d.MillRecirculationPct},
		{"raw_meal_lsf_ratio", d.RawMealLSFRatio},
		{"clinker_free_lime_pct", d.ClinkerFreeLimePct},
		{"kiln_specific_thermal_energy_kcal_per_kg_clinker", d.KilnThermalEnergy},
		{"kiln_exit_nox_emissions_mg_per_nm3", d.KilnExitNOx},
		{"mill_motor_power_draw_kW", d.MillMotorPowerDrawKW},
		{"mill_specific_electrical_energy_kwh_per_ton_cement", d.MillElectricalEnergy},
		{"cement_fineness_blaine_cm2_per_g", d.CementFinenessBlaine},
	}
}
