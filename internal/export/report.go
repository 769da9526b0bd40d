package export

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/MikeSquared-Agency/Resilience/internal/catalog"
	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

var (
	highColor       = color.New(color.FgGreen, color.Bold)
	moderateColor   = color.New(color.FgYellow)
	developingColor = color.New(color.FgRed)
)

// TierLabel returns the pivot tier coloured for console output.
func TierLabel(t scoring.Tier) string {
	switch t {
	case scoring.TierHigh:
		return highColor.Sprint(string(t))
	case scoring.TierModerate:
		return moderateColor.Sprint(string(t))
	default:
		return developingColor.Sprint(string(t))
	}
}

// WriteReport prints the metric table followed by a short summary of the
// derived indicators.
func WriteReport(w io.Writer, cat catalog.Catalog, snap store.Snapshot, result scoring.Result) error {
	if snap.Context != nil && snap.Context.TeamName != "" {
		fmt.Fprintf(w, "Assessment: %s", snap.Context.TeamName)
		if snap.Context.Department != "" {
			fmt.Fprintf(w, " (%s)", snap.Context.Department)
		}
		if snap.Context.AssessmentDate != "" {
			fmt.Fprintf(w, ", %s", snap.Context.AssessmentDate)
		}
		fmt.Fprintln(w)
	}

	values := make(map[string]int, len(snap.Items))
	for _, item := range snap.Items {
		values[item.ID] = item.Value
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Metric", "Label", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, def := range cat.Definitions() {
		value, ok := values[def.ID]
		if !ok {
			value = def.Default
		}
		data = append(data, []string{string(def.Group), def.ID, def.Label, fmt.Sprintf("%d", value)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Capacity %.1f (weight %.2f), adaptability %.1f (weight %.2f)\n",
		result.CapacityScore, result.Weights.Capacity, result.AdaptabilityScore, result.Weights.Adaptability)
	fmt.Fprintf(w, "CER %d (%.1f), recovery reduction %d%%, stress index %d, pivot tier %s\n",
		result.CompositeRounded, result.Composite, result.RecoveryReduction, result.StressIndex, TierLabel(result.PivotTier))
	return nil
}
