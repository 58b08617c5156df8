package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestKPIFeatureSets(t *testing.T) {
	assert.Len(t, FreeLime.Features, 11)
	assert.Contains(t, FreeLime.Features, "raw_meal_lsf_ratio")
	assert.Equal(t, "clinker_free_lime_%", FreeLime.Name)

	assert.Len(t, ThermalEnergy.Features, 6)
	assert.NotContains(t, ThermalEnergy.Features, "clinker_feed_rate_tph")
	assert.Equal(t, "kiln_specific_thermal_energy_Kcal/kg_clinker", ThermalEnergy.Name)
}

func TestKPIMissing(t *testing.T) {
	body := map[string]any{}
	for _, f := range ThermalEnergy.Features {
		body[f] = 1.0
	}
	assert.Empty(t, ThermalEnergy.Missing(body))

	delete(body, "fuel_feed_rate_tph")
	body["kiln_main_drive_current_amp"] = nil
	missing := ThermalEnergy.Missing(body)
	assert.ElementsMatch(t, []string{"fuel_feed_rate_tph", "kiln_main_drive_current_amp"}, missing)
}

func TestKPIValidate(t *testing.T) {
	body := map[string]any{}
	for _, f := range ThermalEnergy.Features {
		body[f] = 1.0
	}
	require.NoError(t, ThermalEnergy.Validate(body))

	body["fuel_feed_rate_tph"] = "not a number"
	assert.Error(t, ThermalEnergy.Validate(body))
}

func TestScalarFromPrediction(t *testing.T) {
	t.Run("bare number", func(t *testing.T) {
		v, err := scalarFromPrediction(structpb.NewNumberValue(1.5))
		require.NoError(t, err)
		assert.Equal(t, 1.5, v)
	})

	t.Run("value struct", func(t *testing.T) {
		st, err := structpb.NewStruct(map[string]any{"value": 2.25})
		require.NoError(t, err)

		v, err := scalarFromPrediction(structpb.NewStructValue(st))
		require.NoError(t, err)
		assert.Equal(t, 2.25, v)
	})

	t.Run("unexpected shape", func(t *testing.T) {
		_, err := scalarFromPrediction(structpb.NewStringValue("oops"))
		assert.Error(t, err)
	})
}
