package scoring

// Tier classifies how readily a team can pivot, based on adaptability.
type Tier string

const (
	TierHigh       Tier = "high"
	TierModerate   Tier = "moderate"
	TierDeveloping Tier = "developing"
)

// Tier thresholds are inclusive lower bounds.
const (
	highTierFloor     = 75.0
	moderateTierFloor = 55.0
)

// PivotTierFor maps the adaptability score to a tier:
// >=75 high, >=55 moderate, otherwise developing.
func PivotTierFor(adaptabilityScore float64) Tier {
	switch {
	case adaptabilityScore >= highTierFloor:
		return TierHigh
	case adaptabilityScore >= moderateTierFloor:
		return TierModerate
	default:
		return TierDeveloping
	}
}
