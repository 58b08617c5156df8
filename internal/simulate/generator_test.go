package simulate

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(rows int) Config {
	return Config{
		Rows:            rows,
		IntervalMinutes: 15,
		Seed:            42,
		Now:             time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// anomalyRows collects every row touched by any scenario.
func anomalyRows(d *Dataset) map[int]bool {
	hit := map[int]bool{}
	for _, sc := range d.Scenarios {
		for _, i := range sc.Rows {
			hit[i] = true
		}
	}
	return hit
}

func TestBlendCompositionSumsToHundred(t *testing.T) {
	d := Generate(testConfig(2000))
	d.Round()

	for i := 0; i < d.Len(); i++ {
		sum := d.LimestoneFeedRatePct[i] + d.ClayFeedRatePct[i] +
			d.IronOreFeedRatePct[i] + d.BauxiteFeedRatePct[i]
		assert.InDelta(t, 100.0, sum, 0.05, "row %d", i)
	}
}

func TestDerivedKPIsFollowFormulas(t *testing.T) {
	d := Generate(testConfig(3000))
	hit := anomalyRows(d)

	// The noise on each KPI is Gaussian with a known std; 6 sigma bounds
	// the residual for every clean row across thousands of checks.
	for i := 0; i < d.Len(); i++ {
		if hit[i] {
			continue
		}

		assert.InDelta(t, lsfMean(d.LimestoneFeedRatePct[i]), d.RawMealLSFRatio[i], 6*lsfNoiseStd)
		assert.InDelta(t, freeLimeMean(d.FuelFeedRateTph[i], d.RawMealLSFRatio[i]), d.ClinkerFreeLimePct[i], 6*freeLimeNoiseStd)
		assert.InDelta(t, thermalEnergyMean(d.RawMealFeedRateTph[i], d.FuelAltSubstitutionPct[i]), d.KilnThermalEnergy[i], 6*thermalEnergyNoiseStd)
		assert.InDelta(t, noxMean(d.FuelFeedRateTph[i], d.FuelAltSubstitutionPct[i]), d.KilnExitNOx[i], 6*noxNoiseStd)
		assert.InDelta(t, millPowerMean(d.ClinkerFeedRateTph[i], d.MillRecirculationPct[i], d.ClinkerFreeLimePct[i]), d.MillMotorPowerDrawKW[i], 6*millPowerNoiseStd)
		assert.InDelta(t, finenessMean(d.ClinkerFeedRateTph[i], d.MillMotorPowerDrawKW[i]), d.CementFinenessBlaine[i], 6*finenessNoiseStd)
	}
}

func TestElectricalEnergyIsExactRatio(t *testing.T) {
	// Holds for every row, anomaly rows included: the mill inefficiency
	// scenario recomputes the ratio after overriding the power draw.
	d := Generate(testConfig(3000))

	for i := 0; i < d.Len(); i++ {
		want := d.MillMotorPowerDrawKW[i] / (d.ClinkerFeedRateTph[i] + d.GypsumFeedRateTph[i])
		require.Equal(t, want, d.MillElectricalEnergy[i], "row %d", i)
	}

	d.Round()
	for i := 0; i < d.Len(); i++ {
		want := d.MillMotorPowerDrawKW[i] / (d.ClinkerFeedRateTph[i] + d.GypsumFeedRateTph[i])
		assert.InDelta(t, want, d.MillElectricalEnergy[i], 0.011, "row %d post-rounding", i)
	}
}

func TestAnomalySubsets(t *testing.T) {
	const rows = 4000
	d := Generate(testConfig(rows))

	wantSize := int(float64(rows)*anomalyFraction) / scenarioCount
	require.Len(t, d.Scenarios, 3)

	names := []string{"high_lsf", "mill_inefficiency", "kiln_instability"}
	for i, sc := range d.Scenarios {
		assert.Equal(t, names[i], sc.Name)
		assert.Len(t, sc.Rows, wantSize)

		// distinct within a scenario
		seen := map[int]bool{}
		for _, r := range sc.Rows {
			assert.False(t, seen[r], "scenario %s picked row %d twice", sc.Name, r)
			seen[r] = true
			assert.GreaterOrEqual(t, r, 0)
			assert.Less(t, r, rows)
		}
	}
}

func TestAnomalyOverridesFollowScenarioFormulas(t *testing.T) {
	d := Generate(testConfig(4000))
	hiLSF, mill, kiln := d.Scenarios[0], d.Scenarios[1], d.Scenarios[2]

	// later scenarios can re-touch a row; only rows owned exclusively by a
	// scenario carry its formula unmodified
	owned := func(sc ScenarioReport, others ...ScenarioReport) []int {
		taken := map[int]bool{}
		for _, o := range others {
			for _, r := range o.Rows {
				taken[r] = true
			}
		}
		var rows []int
		for _, r := range sc.Rows {
			if !taken[r] {
				rows = append(rows, r)
			}
		}
		return rows
	}

	t.Run("high LSF", func(t *testing.T) {
		for _, i := range owned(hiLSF, mill, kiln) {
			// free lime = 1.0 + 0.4*(lsf-95) + U(1.0, 1.5)
			excess := d.ClinkerFreeLimePct[i] - (1.0 + (d.RawMealLSFRatio[i]-95)*0.4)
			assert.GreaterOrEqual(t, excess, 1.0, "row %d", i)
			assert.LessOrEqual(t, excess, 1.5, "row %d", i)
			// the perturbed LSF still follows the LSF formula with its noise
			assert.InDelta(t, lsfMean(d.LimestoneFeedRatePct[i]), d.RawMealLSFRatio[i], 5*lsfNoiseStd)
		}
	})

	t.Run("mill inefficiency", func(t *testing.T) {
		for _, i := range owned(mill, hiLSF, kiln) {
			want := d.MillMotorPowerDrawKW[i] / (d.ClinkerFeedRateTph[i] + d.GypsumFeedRateTph[i])
			assert.Equal(t, want, d.MillElectricalEnergy[i], "row %d", i)
			// power draw sits U(200,400) above its baseline formula value
			excess := d.MillMotorPowerDrawKW[i] - millPowerMean(d.ClinkerFeedRateTph[i], d.MillRecirculationPct[i], d.ClinkerFreeLimePct[i])
			assert.GreaterOrEqual(t, excess, 200-5*millPowerNoiseStd, "row %d", i)
			assert.LessOrEqual(t, excess, 400+5*millPowerNoiseStd, "row %d", i)
		}
	})

	t.Run("kiln instability", func(t *testing.T) {
		for _, i := range owned(kiln, hiLSF, mill) {
			excess := d.KilnMainDriveCurrent[i] - kilnMainDriveCurrentMean
			// U(30,60) on top of N(200,5)
			assert.GreaterOrEqual(t, excess, 30-5*kilnMainDriveCurrentStd, "row %d", i)
			assert.LessOrEqual(t, excess, 60+5*kilnMainDriveCurrentStd, "row %d", i)
		}
	})
}

func TestOutputShape(t *testing.T) {
	const rows = 500
	d := Generate(testConfig(rows))
	d.Round()

	var buf bytes.Buffer
	require.NoError(t, d.WriteCSV(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, rows+1)

	header := strings.Split(lines[0], ",")
	assert.Equal(t, Header(), header)
	assert.Len(t, header, 21)

	for _, line := range lines[1:] {
		assert.Len(t, strings.Split(line, ","), 21)
	}
}

func TestTimestampsDecreaseByInterval(t *testing.T) {
	cfg := testConfig(10)
	d := Generate(cfg)

	require.Equal(t, cfg.Now, d.Timestamps[0])
	for i := 1; i < d.Len(); i++ {
		assert.Equal(t, 15*time.Minute, d.Timestamps[i-1].Sub(d.Timestamps[i]))
	}
}

func TestSameSeedReproducesByteIdenticalOutput(t *testing.T) {
	cfg := testConfig(1000)

	render := func() []byte {
		d := Generate(cfg)
		d.Round()
		var buf bytes.Buffer
		require.NoError(t, d.WriteCSV(&buf))
		return buf.Bytes()
	}

	assert.Equal(t, render(), render())
}

func TestDifferentSeedDiverges(t *testing.T) {
	a := Generate(testConfig(100))
	cfg := testConfig(100)
	cfg.Seed = 7
	b := Generate(cfg)

	diverged := false
	for i := range a.LimestoneFeedRatePct {
		if math.Abs(a.LimestoneFeedRatePct[i]-b.LimestoneFeedRatePct[i]) > 1e-9 {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

func TestWriteCSVRequiresRounding(t *testing.T) {
	d := Generate(testConfig(5))
	var buf bytes.Buffer
	assert.Error(t, d.WriteCSV(&buf))
}
