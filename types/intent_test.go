package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/estateflow/orchestrator/types"
)

func TestIntentClassificationValidate(t *testing.T) {
	c := &types.IntentClassification{
		Intent:     types.IntentFindListings,
		Confidence: 0.9,
	}
	assert.Nil(t, c.Validate())
	assert.Equal(t, "intent-clf-v1.0", c.ModelVersion)
	assert.NotNil(t, c.Slots)

	c = &types.IntentClassification{
		Intent:       types.IntentPriceForecast,
		Confidence:   1,
		ModelVersion: "intent-clf-v2.3",
		Slots:        types.Data{types.SlotListingIDs: []string{"lst-1"}},
	}
	assert.Nil(t, c.Validate())
	assert.Equal(t, "intent-clf-v2.3", c.ModelVersion)
}

func TestIntentClassificationRejected(t *testing.T) {
	missing := &types.IntentClassification{Confidence: 0.5}
	assert.NotNil(t, missing.Validate())

	outOfRange := &types.IntentClassification{
		Intent:     types.IntentCheckFreshness,
		Confidence: 1.2,
	}
	assert.NotNil(t, outOfRange.Validate())

	negative := &types.IntentClassification{
		Intent:     types.IntentCompareLocations,
		Confidence: -0.1,
	}
	assert.NotNil(t, negative.Validate())
}
