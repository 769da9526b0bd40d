package scoring

import (
	"math"
	"testing"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
)

func valuesFor(cat catalog.Catalog, capacity, adaptability int) []catalog.MetricValue {
	var out []catalog.MetricValue
	for _, d := range cat.Definitions() {
		v := capacity
		if d.Group == catalog.GroupAdaptability {
			v = adaptability
		}
		out = append(out, catalog.MetricValue{ID: d.ID, Value: v})
	}
	return out
}

func TestEvaluateDefaults(t *testing.T) {
	cat := catalog.Default()
	r := Evaluate(cat, cat.Defaults(), DefaultWeights())

	if r.CapacityScore != 55 {
		t.Errorf("expected capacity 55, got %f", r.CapacityScore)
	}
	if r.AdaptabilityScore != 48 {
		t.Errorf("expected adaptability 48, got %f", r.AdaptabilityScore)
	}
	if math.Abs(r.Composite-51.5) > 1e-9 {
		t.Errorf("expected CER 51.5, got %f", r.Composite)
	}
	if r.CompositeRounded != 52 {
		t.Errorf("expected rounded CER 52, got %d", r.CompositeRounded)
	}
	if r.RecoveryReduction != 21 {
		t.Errorf("expected recovery reduction 21, got %d", r.RecoveryReduction)
	}
	if r.StressIndex != 49 {
		t.Errorf("expected stress index 49, got %d", r.StressIndex)
	}
	if r.PivotTier != TierDeveloping {
		t.Errorf("expected developing, got %s", r.PivotTier)
	}
}

func TestEvaluateZeroCapacityFullAdaptability(t *testing.T) {
	cat := catalog.Default()
	r := Evaluate(cat, valuesFor(cat, 0, 100), DefaultWeights())

	if r.Composite != 50 {
		t.Errorf("expected CER 50, got %f", r.Composite)
	}
	if r.StressIndex != 60 {
		t.Errorf("expected stress index 60, got %d", r.StressIndex)
	}
	if r.PivotTier != TierHigh {
		t.Errorf("expected high, got %s", r.PivotTier)
	}
}

func TestEvaluateGroupBreakdown(t *testing.T) {
	cat := catalog.Default()
	r := Evaluate(cat, cat.Defaults(), WeightPair{CapacityWeight: 0.75, AdaptabilityWeight: 0.25})

	if len(r.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(r.Groups))
	}
	var total float64
	for _, g := range r.Groups {
		if g.Count != 4 {
			t.Errorf("group %s: expected 4 metrics, got %d", g.Group, g.Count)
		}
		if math.Abs(g.Weighted-g.Score*g.Weight) > 1e-9 {
			t.Errorf("group %s: weighted %f != score*weight", g.Group, g.Weighted)
		}
		total += g.Weighted
	}
	if math.Abs(total-r.Composite) > 1e-9 {
		t.Errorf("group contributions %f do not sum to CER %f", total, r.Composite)
	}
	if math.Abs(r.Composite-(0.75*55+0.25*48)) > 1e-9 {
		t.Errorf("unexpected CER %f", r.Composite)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        WeightPair
		wantCap   float64
		wantAdapt float64
	}{
		{"equal", WeightPair{0.5, 0.5}, 0.5, 0.5},
		{"zero", WeightPair{0, 0}, 0, 0},
		{"unbalanced", WeightPair{0.2, 0.6}, 0.25, 0.75},
		{"clamped above", WeightPair{3, 1}, 0.5, 0.5},
		{"clamped below", WeightPair{-1, 0.4}, 0, 1},
		{"both negative", WeightPair{-1, -2}, 0, 0},
		{"nan", WeightPair{math.NaN(), 0.3}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if math.Abs(got.Capacity-tt.wantCap) > 1e-9 || math.Abs(got.Adaptability-tt.wantAdapt) > 1e-9 {
				t.Errorf("got %+v, want {%f %f}", got, tt.wantCap, tt.wantAdapt)
			}
		})
	}
}

func TestZeroWeightsGiveZeroComposite(t *testing.T) {
	cat := catalog.Default()
	r := Evaluate(cat, valuesFor(cat, 90, 70), WeightPair{})
	if r.Composite != 0 {
		t.Errorf("expected CER 0, got %f", r.Composite)
	}
	if r.RecoveryReduction != 0 {
		t.Errorf("expected recovery reduction 0, got %d", r.RecoveryReduction)
	}
}

func TestGroupScoreEmptyGroup(t *testing.T) {
	cat := catalog.New([]catalog.MetricDefinition{
		{ID: "only", Group: catalog.GroupCapacity, Default: 80},
	})
	values := cat.Defaults()
	if got := GroupScore(cat, values, catalog.GroupAdaptability); got != 0 {
		t.Errorf("expected 0 for empty group, got %f", got)
	}
	if got := GroupScore(cat, values, catalog.GroupCapacity); got != 80 {
		t.Errorf("expected 80, got %f", got)
	}
}

func TestGroupScoreIgnoresUnknownIDs(t *testing.T) {
	cat := catalog.Default()
	values := append(cat.Defaults(), catalog.MetricValue{ID: "ghost", Value: 100})
	if got := GroupScore(cat, values, catalog.GroupCapacity); got != 55 {
		t.Errorf("expected 55, got %f", got)
	}
}

func TestRecoveryReduction(t *testing.T) {
	tests := []struct {
		cer  float64
		want int
	}{
		{0, 0},
		{100, 40},
		{52, 21},
		{51.5, 21},
		{50, 20},
		{10, 4},
	}
	for _, tt := range tests {
		if got := RecoveryReduction(tt.cer); got != tt.want {
			t.Errorf("RecoveryReduction(%v) = %d, want %d", tt.cer, got, tt.want)
		}
	}
}

func TestStressIndex(t *testing.T) {
	tests := []struct {
		name       string
		cap, adapt float64
		want       int
	}{
		{"both zero", 0, 0, 0},
		{"both full", 100, 100, 100},
		{"zero capacity", 0, 100, 60},
		{"zero adaptability", 100, 0, 0},
		{"defaults", 55, 48, 49},
		{"even split", 50, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StressIndex(tt.cap, tt.adapt); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPivotTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{100, TierHigh},
		{75, TierHigh},
		{74.99, TierModerate},
		{55, TierModerate},
		{54.99, TierDeveloping},
		{48, TierDeveloping},
		{0, TierDeveloping},
	}
	for _, tt := range tests {
		if got := PivotTierFor(tt.score); got != tt.want {
			t.Errorf("PivotTierFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
