package store

import (
	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
)

// CurrentVersion is the only transport version Decode accepts.
const CurrentVersion = 1

// AssessmentContext is free-text metadata carried alongside an assessment.
type AssessmentContext struct {
	TeamName          string `json:"teamName"`
	Department        string `json:"department"`
	AssessmentDate    string `json:"assessmentDate"`
	AssessorName      string `json:"assessorName"`
	AssessmentPurpose string `json:"assessmentPurpose"`
}

// IsZero reports whether every field is empty.
func (c AssessmentContext) IsZero() bool {
	return c == AssessmentContext{}
}

// Snapshot is the unit of persistence and sharing. Weights and Context are
// nil when the source did not supply them.
type Snapshot struct {
	Version int                   `json:"v"`
	Items   []catalog.MetricValue `json:"items"`
	Weights *scoring.WeightPair   `json:"weights,omitempty"`
	Context *AssessmentContext    `json:"context,omitempty"`
}

// Merge reconciles a partial snapshot against the catalog. The result has
// exactly one value per catalog entry, in catalog order: supplied values are
// clamped to [0,100], missing ids take the catalog default, and ids the
// catalog does not know are dropped. If an id appears more than once the last
// value wins. Missing weights become 0.5/0.5. Merge is pure, so merging the
// same partial twice gives the same result.
func Merge(cat catalog.Catalog, partial Snapshot) Snapshot {
	supplied := make(map[string]int, len(partial.Items))
	for _, item := range partial.Items {
		supplied[item.ID] = item.Value
	}

	items := cat.Defaults()
	for i := range items {
		if v, ok := supplied[items[i].ID]; ok {
			items[i].Value = clampValue(v)
		}
	}

	weights := scoring.DefaultWeights()
	if partial.Weights != nil {
		weights = *partial.Weights
	}

	var ctx *AssessmentContext
	if partial.Context != nil {
		c := *partial.Context
		ctx = &c
	}

	return Snapshot{
		Version: CurrentVersion,
		Items:   items,
		Weights: &weights,
		Context: ctx,
	}
}

func clampValue(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
