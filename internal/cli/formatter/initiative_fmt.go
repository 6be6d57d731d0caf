package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// InitiativeLookup resolves an initiative ID. (*state.Board).Initiative fits.
type InitiativeLookup func(id string) (*domain.Initiative, bool)

func initiativeName(lookup InitiativeLookup, id string) string {
	if lookup != nil {
		if i, ok := lookup(id); ok {
			return Swatch(i.Color) + " " + i.Name
		}
	}
	return Dim("unknown " + TruncID(id))
}

// FormatInitiativeList renders initiatives with their planned, consumed and
// pending hours.
func FormatInitiativeList(rows []metrics.InitiativeMetrics) string {
	if len(rows) == 0 {
		return RenderBox("Initiatives", Dim("No initiatives yet. Create one with `planboard initiative add`."))
	}

	headers := []string{"ID", "NAME", "ESTIMATE", "PLANNED", "CONSUMED", "PENDING", "STATUS"}
	aligns := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}
	out := make([][]string, 0, len(rows))
	for _, m := range rows {
		i := m.Initiative
		name := Swatch(i.Color) + " " + Bold(Truncate(i.Name, 32))
		if i.Icon != "" {
			name = Swatch(i.Color) + " " + i.Icon + " " + Bold(Truncate(i.Name, 32))
		}
		status := StatusPill(m.Status)
		if i.IsClosed() {
			status = Dim("finalized " + i.ClosedAt.Format("2006-01-02"))
		}
		out = append(out, []string{
			TruncID(i.ID),
			name,
			EstimateText(i.EstimatedHours),
			Hours(m.Planned),
			Hours(m.Consumed),
			Hours(m.Pending),
			status,
		})
	}
	return RenderBox("Initiatives", RenderAlignedTable(headers, aligns, out))
}

// FormatInitiativeReview renders the full accounting of one initiative with
// its blocks.
func FormatInitiativeReview(m metrics.InitiativeMetrics, blocks []*domain.ScheduledBlock, closed map[string]bool, now time.Time) string {
	i := m.Initiative
	var b strings.Builder

	title := Swatch(i.Color) + " " + StyleBold.Render(i.Name)
	if i.Icon != "" {
		title = Swatch(i.Color) + " " + i.Icon + " " + StyleBold.Render(i.Name)
	}
	b.WriteString(title + "\n")
	if i.Description != "" {
		b.WriteString(Dim(i.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", TruncID(i.ID))
	field("STATUS", StatusPill(m.Status))
	if i.IsClosed() {
		field("FINALIZED", i.ClosedAt.Format("2006-01-02")+" "+Dim("("+RelativeDateFrom(*i.ClosedAt, now)+")"))
	}
	field("ESTIMATE", EstimateText(i.EstimatedHours))
	field("PLANNED", Hours(m.Planned))
	field("CONSUMED", Hours(m.Consumed))
	field("PENDING", Hours(m.Pending))
	if i.HasEstimate() {
		field("VARIANCE", VarianceCell(m))
		field("ACCURACY", AccuracyPill(m.Accuracy))
	}
	if i.HasEstimate() && i.Estimate() > 0 {
		field("PROGRESS", RenderProgress(m.Consumed/i.Estimate(), 20))
	}
	field("DAYS", fmt.Sprintf("%d scheduled, %d worked, %d blocks", m.DaysScheduled, m.DaysWorked, m.Instances))

	b.WriteString("\n" + StyleHeader.Render("BLOCKS") + "\n")
	if len(blocks) == 0 {
		b.WriteString(Dim("Nothing scheduled."))
	} else {
		b.WriteString(strings.TrimRight(blockTable(blocks, nil, closed), "\n"))
	}

	return RenderBox("", b.String())
}

// VarianceCell renders the final variance of m, "pending" while hours remain
// on open days, or "--" without an estimate.
func VarianceCell(m metrics.InitiativeMetrics) string {
	switch {
	case m.VarianceOK:
		return varianceText(m.Variance, m.VariancePct)
	case m.Initiative.HasEstimate():
		return Dim("pending")
	default:
		return Dim("--")
	}
}

func varianceText(v, pct float64) string {
	text := fmt.Sprintf("%s (%+.0f%%)", SignedHours(v), pct)
	switch {
	case v > 0:
		return StyleRed.Render(text)
	case v < 0:
		return StyleGreen.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// blockRange renders "06-03 → 06-05" or a single day.
func blockRange(blk *domain.ScheduledBlock) string {
	if workweek.SameDay(blk.StartDate, blk.EndDate) {
		return DayLabel(blk.StartDate)
	}
	return DayLabel(blk.StartDate) + " → " + DayLabel(blk.EndDate)
}
