package schedule

import (
	"github.com/glazehaus/studio_scheduler/internal/model"
)

// CapacityFor determines the numeric capacity of a slot. Precedence,
// highest first: explicit per-date override, the capacity declared by a
// self-scheduling product's session rule, the technique-keyed default, the
// global fallback. Pure and total; never returns a negative value.
func CapacityFor(technique model.Technique, product *model.Product, override *int, cfg model.CapacityConfig) int {
	if override != nil {
		return floorZero(*override)
	}

	if product != nil && product.HasOwnSchedule() {
		for _, rule := range product.Detail.SessionRules {
			if rule.Capacity > 0 {
				return rule.Capacity
			}
		}
	}

	if c, ok := cfg.PerTechnique[technique]; ok && c > 0 {
		return c
	}

	if cfg.GlobalFallback > 0 {
		return cfg.GlobalFallback
	}
	return 1
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
