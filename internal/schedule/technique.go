package schedule

import (
	"strings"

	"github.com/glazehaus/studio_scheduler/internal/model"
)

// ResolveTechnique derives the technique bucket of a booking. The source
// data stores it in up to four places, so derivation follows a fixed
// priority chain and always lands on a bucket, never an empty value; slot
// grouping depends on it being total:
//
//  1. explicit technique field on the booking
//  2. technique metadata on a multi-person group booking
//  3. technique in the purchased product's detail record
//  4. inference from the product name, falling back to TechniqueOther
func ResolveTechnique(b *model.Booking, p *model.Product) model.Technique {
	if b != nil {
		if b.Technique.IsKnown() && b.Technique != model.TechniqueOther {
			return b.Technique
		}
		if b.Group != nil && b.Group.Technique.IsKnown() && b.Group.Technique != model.TechniqueOther {
			return b.Group.Technique
		}
	}
	if p != nil {
		if p.Detail.Technique.IsKnown() && p.Detail.Technique != model.TechniqueOther {
			return p.Detail.Technique
		}
		return techniqueFromName(p.Name)
	}
	return model.TechniqueOther
}

func techniqueFromName(name string) model.Technique {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "wheel"), strings.Contains(lower, "throw"):
		return model.TechniqueWheel
	case strings.Contains(lower, "paint"), strings.Contains(lower, "glaze"):
		return model.TechniquePainting
	case strings.Contains(lower, "hand"), strings.Contains(lower, "model"), strings.Contains(lower, "sculpt"):
		return model.TechniqueHandbuilding
	}
	return model.TechniqueOther
}
