package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
)

// GroupResult captures one group's contribution to the composite score.
type GroupResult struct {
	Group    catalog.Group `json:"group"`
	Score    float64       `json:"score"`
	Weight   float64       `json:"weight"`
	Weighted float64       `json:"weighted"`
	Count    int           `json:"count"`
}

// Result is the complete set of derived values for one assessment state.
type Result struct {
	CapacityScore     float64           `json:"capacity_score"`
	AdaptabilityScore float64           `json:"adaptability_score"`
	Weights           NormalizedWeights `json:"normalized_weights"`
	Composite         float64           `json:"cer"`
	CompositeRounded  int               `json:"cer_rounded"`
	RecoveryReduction int               `json:"recovery_reduction"`
	StressIndex       int               `json:"stress_index"`
	PivotTier         Tier              `json:"pivot_tier"`
	Groups            []GroupResult     `json:"groups"`
}

// Evaluate derives the group scores, composite score and the three
// indicators from the current values and weights. It holds no state and is
// meant to be called on every read.
func Evaluate(cat catalog.Catalog, values []catalog.MetricValue, weights WeightPair) Result {
	nw := weights.Normalize()

	capScore, capCount := groupMean(cat, values, catalog.GroupCapacity)
	adaptScore, adaptCount := groupMean(cat, values, catalog.GroupAdaptability)

	groups := []GroupResult{
		{Group: catalog.GroupCapacity, Score: capScore, Weight: nw.Capacity, Count: capCount},
		{Group: catalog.GroupAdaptability, Score: adaptScore, Weight: nw.Adaptability, Count: adaptCount},
	}

	var cer float64
	for i := range groups {
		groups[i].Weighted = groups[i].Score * groups[i].Weight
		cer += groups[i].Weighted
	}

	return Result{
		CapacityScore:     capScore,
		AdaptabilityScore: adaptScore,
		Weights:           nw,
		Composite:         cer,
		CompositeRounded:  round(cer),
		RecoveryReduction: RecoveryReduction(cer),
		StressIndex:       StressIndex(capScore, adaptScore),
		PivotTier:         PivotTierFor(adaptScore),
		Groups:            groups,
	}
}

// GroupScore returns the arithmetic mean of the values in group g, or 0 when
// the group has no values. Values whose id is not in the catalog are ignored.
func GroupScore(cat catalog.Catalog, values []catalog.MetricValue, g catalog.Group) float64 {
	score, _ := groupMean(cat, values, g)
	return score
}

func groupMean(cat catalog.Catalog, values []catalog.MetricValue, g catalog.Group) (float64, int) {
	var sum, n int
	for _, v := range values {
		def, ok := cat.Lookup(v.ID)
		if !ok || def.Group != g {
			continue
		}
		sum += v.Value
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}

// RecoveryReduction estimates the percentage reduction in recovery time as a
// linear function of the composite score, in [0,40].
func RecoveryReduction(cer float64) int {
	return round(cer / 100 * 40)
}

// StressIndex blends the geometric mean of both group scores with the
// adaptability score:
//
//	g = sqrt(cap/100 * adapt/100)
//	index = round(100 * (0.4*g + 0.6*adapt/100))
//
// A zero group score makes g zero, leaving round(60 * adapt/100).
func StressIndex(capacityScore, adaptabilityScore float64) int {
	c := capacityScore / 100
	a := adaptabilityScore / 100
	g := math.Sqrt(c * a)
	return round(100 * (0.4*g + 0.6*a))
}

// round rounds half away from zero. All inputs are non-negative.
func round(v float64) int {
	return int(math.Round(v))
}
