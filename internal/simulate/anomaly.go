package simulate

import "math/rand"

// anomalyFraction of all rows is perturbed, split evenly across the
// scenarios. Each scenario draws its rows independently over the full index
// range (without replacement within the scenario), so a row can be hit by
// more than one scenario; the last applied scenario wins. This mirrors the
// historical generator and is intentional.
const (
	anomalyFraction = 0.15
	scenarioCount   = 3
)

type scenario struct {
	name  string
	apply func(d *Dataset, rows []int, rng *rand.Rand)
}

func scenarios() []scenario {
	return []scenario{
		{name: "high_lsf", apply: applyHighLSF},
		{name: "mill_inefficiency", apply: applyMillInefficiency},
		{name: "kiln_instability", apply: applyKilnInstability},
	}
}

// injectAnomalies perturbs three row subsets, each of size
// floor(0.15*N/3), consuming the random source per scenario as: row
// selection first, then magnitude draws in column order.
func injectAnomalies(d *Dataset, rng *rand.Rand) {
	perScenario := int(float64(d.Len())*anomalyFraction) / scenarioCount

	for _, sc := range scenarios() {
		rows := chooseRows(rng, d.Len(), perScenario)
		sc.apply(d, rows, rng)
		d.Scenarios = append(d.Scenarios, ScenarioReport{Name: sc.name, Rows: rows})
	}
}

// applyHighLSF simulates a composition-driven quality excursion: excess
// limestone pushes the LSF up and the free lime follows the LSF-only
// dependency plus an excursion offset.
func applyHighLSF(d *Dataset, rows []int, rng *rand.Rand) {
	for _, i := range rows {
		d.LimestoneFeedRatePct[i] += uniform(rng, 4, 8)
	}
	for _, i := range rows {
		d.RawMealLSFRatio[i] = lsfMean(d.LimestoneFeedRatePct[i]) + rng.NormFloat64()*lsfNoiseStd
	}
	for _, i := range rows {
		d.ClinkerFreeLimePct[i] = 1.0 + (d.RawMealLSFRatio[i]-95)*0.4 + uniform(rng, 1.0, 1.5)
	}
}

// applyMillInefficiency simulates grinding inefficiency: power draw climbs,
// fineness drops, and the specific electrical energy is recomputed from the
// updated power draw so the ratio invariant still holds.
func applyMillInefficiency(d *Dataset, rows []int, rng *rand.Rand) {
	for _, i := range rows {
		d.MillMotorPowerDrawKW[i] += uniform(rng, 200, 400)
	}
	for _, i := range rows {
		d.CementFinenessBlaine[i] -= uniform(rng, 300, 500)
	}
	for _, i := range rows {
		d.MillElectricalEnergy[i] = d.MillMotorPowerDrawKW[i] / (d.ClinkerFeedRateTph[i] + d.GypsumFeedRateTph[i])
	}
}

// applyKilnInstability simulates mechanical kiln instability: drive current
// spikes with collateral free lime and thermal energy offsets.
func applyKilnInstability(d *Dataset, rows []int, rng *rand.Rand) {
	for _, i := range rows {
		d.KilnMainDriveCurrent[i] += uniform(rng, 30, 60)
	}
	for _, i := range rows {
		d.ClinkerFreeLimePct[i] += uniform(rng, 0.5, 0.8)
	}
	for _, i := range rows {
		d.KilnThermalEnergy[i] += uniform(rng, 50, 80)
	}
}

// chooseRows picks k distinct row indices uniformly from [0, n).
func chooseRows(rng *rand.Rand, n, k int) []int {
	return rng.Perm(n)[:k]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
