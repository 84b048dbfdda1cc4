package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

func testCapacityConfig() model.CapacityConfig {
	return model.CapacityConfig{
		PerTechnique: map[model.Technique]int{
			model.TechniqueWheel:        6,
			model.TechniqueHandbuilding: 8,
			model.TechniquePainting:     10,
		},
		GlobalFallback: 1,
	}
}

func introProduct(ruleCapacity int) *model.Product {
	return &model.Product{
		ID:   7,
		Name: "Intro class",
		Type: model.ProductTypeIntroductory,
		Detail: model.ProductDetail{
			Technique:    model.TechniqueWheel,
			SessionRules: []model.SessionRule{{Weekday: 1, StartHour: 18, Capacity: ruleCapacity}},
		},
	}
}

func TestCapacityForOverrideWinsForAllTechniques(t *testing.T) {
	three := 3
	for _, technique := range model.Techniques() {
		assert.Equal(t, 3, CapacityFor(technique, introProduct(8), &three, testCapacityConfig()),
			string(technique))
	}
}

func TestCapacityForNegativeOverrideFlooredAtZero(t *testing.T) {
	neg := -2
	assert.Equal(t, 0, CapacityFor(model.TechniqueWheel, nil, &neg, testCapacityConfig()))
}

func TestCapacityForProductRuleBeatsTechniqueDefault(t *testing.T) {
	assert.Equal(t, 12, CapacityFor(model.TechniqueWheel, introProduct(12), nil, testCapacityConfig()))
}

func TestCapacityForTechniqueDefault(t *testing.T) {
	cfg := testCapacityConfig()
	assert.Equal(t, 6, CapacityFor(model.TechniqueWheel, nil, nil, cfg))
	assert.Equal(t, 8, CapacityFor(model.TechniqueHandbuilding, nil, nil, cfg))
	assert.Equal(t, 10, CapacityFor(model.TechniquePainting, nil, nil, cfg))
}

func TestCapacityForGlobalFallback(t *testing.T) {
	// Ad-hoc slots with no clear technique get the fallback of one seat.
	assert.Equal(t, 1, CapacityFor(model.TechniqueOther, nil, nil, testCapacityConfig()))
}

func TestCapacityForTotalOnZeroConfig(t *testing.T) {
	assert.Equal(t, 1, CapacityFor(model.TechniqueWheel, nil, nil, model.CapacityConfig{}))
}
