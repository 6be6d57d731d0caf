package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/metrics"
)

// FormatSummary renders the board overview: one row per active initiative,
// largest plan first, followed by totals.
func FormatSummary(s metrics.Summary) string {
	var b strings.Builder
	if len(s.Rows) == 0 {
		b.WriteString(Dim("No active initiatives."))
	} else {
		headers := []string{"INITIATIVE", "ESTIMATE", "PLANNED", "CONSUMED", "PENDING", "PROGRESS", "STATUS"}
		aligns := []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft}
		rows := make([][]string, 0, len(s.Rows))
		for _, m := range s.Rows {
			progress := Dim("--")
			if est := m.Initiative.Estimate(); m.Initiative.HasEstimate() && est > 0 {
				progress = RenderProgress(m.Consumed/est, 12)
			}
			rows = append(rows, []string{
				Swatch(m.Initiative.Color) + " " + Truncate(m.Initiative.Name, 28),
				EstimateText(m.Initiative.EstimatedHours),
				Hours(m.Planned),
				Hours(m.Consumed),
				Hours(m.Pending),
				progress,
				StatusPill(m.Status),
			})
		}
		b.WriteString(strings.TrimRight(RenderAlignedTable(headers, aligns, rows), "\n"))
	}

	t := s.Totals
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %d active, %s estimated, %s planned, %s pending\n",
		StyleDim.Render("TOTAL"), t.Initiatives, Hours(t.Estimated), Hours(t.Planned), Hours(t.Pending)))
	b.WriteString(fmt.Sprintf("%s  %s consumed across all initiatives\n", StyleDim.Render("     "), Hours(t.Consumed)))
	b.WriteString(fmt.Sprintf("%s  %s", StyleDim.Render("     "), StatusPill(t.Status)))
	return RenderBox("Summary", b.String())
}
