package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

// CSVHeader lists the export columns in order.
var CSVHeader = []string{
	"teamName", "department", "assessmentDate", "assessorName", "assessmentPurpose",
	"capacityWeight", "adaptabilityWeight",
	"capacityScore", "adaptabilityScore", "cer",
	"recoveryReduction", "stressIndex", "pivotTier",
	"group", "id", "label", "value",
}

// WriteCSV writes one row per catalog metric, in catalog order. Each row
// repeats the assessment context, the raw weights and the derived values so
// the file stands alone in a spreadsheet. Text fields are always quoted;
// numeric fields never are.
func WriteCSV(w io.Writer, cat catalog.Catalog, snap store.Snapshot, result scoring.Result) error {
	bw := bufio.NewWriter(w)

	var ctx store.AssessmentContext
	if snap.Context != nil {
		ctx = *snap.Context
	}
	weights := scoring.DefaultWeights()
	if snap.Weights != nil {
		weights = *snap.Weights
	}

	values := make(map[string]int, len(snap.Items))
	for _, item := range snap.Items {
		values[item.ID] = item.Value
	}

	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, def := range cat.Definitions() {
		value, ok := values[def.ID]
		if !ok {
			value = def.Default
		}
		row := []string{
			quote(ctx.TeamName),
			quote(ctx.Department),
			quote(ctx.AssessmentDate),
			quote(ctx.AssessorName),
			quote(ctx.AssessmentPurpose),
			fmt.Sprintf("%.2f", weights.CapacityWeight),
			fmt.Sprintf("%.2f", weights.AdaptabilityWeight),
			fmt.Sprintf("%.1f", result.CapacityScore),
			fmt.Sprintf("%.1f", result.AdaptabilityScore),
			fmt.Sprintf("%.1f", result.Composite),
			fmt.Sprintf("%d", result.RecoveryReduction),
			fmt.Sprintf("%d", result.StressIndex),
			quote(string(result.PivotTier)),
			quote(string(def.Group)),
			quote(def.ID),
			quote(def.Label),
			fmt.Sprintf("%d", value),
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return fmt.Errorf("writing csv row %s: %w", def.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
