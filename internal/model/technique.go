package model

// Technique is the craft category of a class. It decides which product a
// generic availability slot maps to and which default capacity applies.
type Technique string

const (
	TechniqueWheel        Technique = "wheel"
	TechniqueHandbuilding Technique = "handbuilding"
	TechniquePainting     Technique = "painting"
	TechniqueOther        Technique = "other"
)

// Techniques lists every known technique, TechniqueOther last.
func Techniques() []Technique {
	return []Technique{TechniqueWheel, TechniqueHandbuilding, TechniquePainting, TechniqueOther}
}

// IsKnown reports whether t is one of the enumerated techniques.
func (t Technique) IsKnown() bool {
	switch t {
	case TechniqueWheel, TechniqueHandbuilding, TechniquePainting, TechniqueOther:
		return true
	}
	return false
}
