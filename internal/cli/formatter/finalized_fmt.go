package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/metrics"
)

// FormatFinalized renders finalized initiatives with their final variance.
func FormatFinalized(rows []metrics.InitiativeMetrics) string {
	if len(rows) == 0 {
		return RenderBox("Finalized", Dim("No initiatives have been finalized yet."))
	}
	headers := []string{"INITIATIVE", "FINALIZED", "ESTIMATE", "CONSUMED", "VARIANCE", "ACCURACY", "DAYS"}
	aligns := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignRight}
	out := make([][]string, 0, len(rows))
	var estimated, consumed float64
	for _, m := range rows {
		i := m.Initiative
		if i.HasEstimate() {
			estimated += i.Estimate()
		}
		consumed += m.Consumed
		closedAt := ""
		if i.ClosedAt != nil {
			closedAt = i.ClosedAt.Format("2006-01-02")
		}
		out = append(out, []string{
			Swatch(i.Color) + " " + Truncate(i.Name, 28),
			closedAt,
			EstimateText(i.EstimatedHours),
			Hours(m.Consumed),
			VarianceCell(m),
			AccuracyPill(m.Accuracy),
			fmt.Sprint(m.DaysWorked),
		})
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(RenderAlignedTable(headers, aligns, out), "\n"))
	b.WriteString(fmt.Sprintf("\n\n%s  %d initiatives, %s estimated, %s consumed",
		StyleDim.Render("TOTAL"), len(rows), Hours(estimated), Hours(consumed)))
	return RenderBox("Finalized", b.String())
}
