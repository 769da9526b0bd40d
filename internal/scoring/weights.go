package scoring

import (
	"math"
)

// DefaultWeight is the starting value for both group weights.
const DefaultWeight = 0.5

// WeightPair holds the relative importance of the two metric groups.
// Values are logically in [0,1] but need not sum to 1; they are clamped and
// normalized only when read by Normalize.
type WeightPair struct {
	CapacityWeight     float64 `json:"capacityWeight"`
	AdaptabilityWeight float64 `json:"adaptabilityWeight"`
}

// DefaultWeights returns the 0.5/0.5 split.
func DefaultWeights() WeightPair {
	return WeightPair{CapacityWeight: DefaultWeight, AdaptabilityWeight: DefaultWeight}
}

// NormalizedWeights are the clamped weights divided by their total.
type NormalizedWeights struct {
	Capacity     float64 `json:"capacity"`
	Adaptability float64 `json:"adaptability"`
}

// Normalize clamps each weight to [0,1] and divides by their sum. When both
// clamp to zero the total is treated as 1, so both normalized weights are 0.
func (w WeightPair) Normalize() NormalizedWeights {
	cw := clamp(w.CapacityWeight, 0, 1)
	aw := clamp(w.AdaptabilityWeight, 0, 1)
	total := cw + aw
	if total == 0 {
		total = 1
	}
	return NormalizedWeights{
		Capacity:     cw / total,
		Adaptability: aw / total,
	}
}

func clamp(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
