package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessReference(t *testing.T) {
	tests := []struct {
		name         string
		uri          string
		wantType     string
		wantSeverity string
		wantAction   string
		wantValue    float64
	}{
		{
			name:         "normal operation",
			uri:          "gs://bucket/kiln/kiln_operating_normal_01.jpg",
			wantType:     "KILN_SETPOINT_ADJUSTMENT",
			wantSeverity: "low",
			wantAction:   ActionMaintain,
			wantValue:    0.0,
		},
		{
			name:         "severe overheating",
			uri:          "gs://bucket/kiln/kiln_overheating_anomaly_high_02.jpg",
			wantType:     "CRITICAL_ALERT",
			wantSeverity: "high",
			wantAction:   ActionDecrease,
			wantValue:    0.3,
		},
		{
			name:         "medium overheating",
			uri:          "gs://bucket/kiln/kiln_overheating_anomaly_medium_03.jpg",
			wantType:     "WARNING",
			wantSeverity: "medium",
			wantAction:   ActionDecrease,
			wantValue:    0.2,
		},
		{
			name:         "unclassified falls through to the default",
			uri:          "gs://bucket/kiln/shell_scan_unknown.jpg",
			wantType:     "WARNING",
			wantSeverity: "medium",
			wantAction:   ActionDecrease,
			wantValue:    0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessReference(tt.uri)

			assert.Equal(t, tt.wantType, got.RecommendationType)
			assert.Equal(t, tt.wantSeverity, got.SeverityLevel)
			assert.Equal(t, KPIFocus, got.KPIFocus)
			if assert.Len(t, got.Adjustments, 1) {
				assert.Equal(t, FuelRateVariable, got.Adjustments[0].Variable)
				assert.Equal(t, tt.wantAction, got.Adjustments[0].Action)
				assert.Equal(t, tt.wantValue, got.Adjustments[0].Value)
			}
			assert.NotEmpty(t, got.VisualFinding)
			assert.NotEmpty(t, got.Recommendation)
		})
	}
}

func TestAssessReferenceDefaultNamesTheFile(t *testing.T) {
	got := AssessReference("gs://bucket/kiln/mystery_frame.png")
	assert.Contains(t, got.VisualFinding, "mystery_frame.png")
}
