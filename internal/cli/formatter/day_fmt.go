package formatter

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// FormatClosedDays renders the ledger of closed days, oldest first.
func FormatClosedDays(days []*domain.ClosedDay, lookup InitiativeLookup) string {
	if len(days) == 0 {
		return RenderBox("Closed days", Dim("No days have been closed."))
	}
	headers := []string{"DATE", "CLOSED AT", "TOTAL", "CONSUMED"}
	aligns := []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft}
	rows := make([][]string, 0, len(days))
	for _, c := range days {
		rows = append(rows, []string{
			DayLabel(c.Date),
			Dim(c.ClosedAt.Local().Format("2006-01-02 15:04")),
			Hours(c.Total()),
			consumedBreakdown(c.ConsumedHours, lookup),
		})
	}
	return RenderBox("Closed days", strings.TrimRight(RenderAlignedTable(headers, aligns, rows), "\n"))
}

// FormatClosedDay confirms a single close with its frozen hours.
func FormatClosedDay(c *domain.ClosedDay, lookup InitiativeLookup) string {
	return StyleGreen.Render("✔") + " Closed " + Bold(DayLabel(c.Date)) + ": " +
		Hours(c.Total()) + " consumed. " + consumedBreakdown(c.ConsumedHours, lookup)
}

func consumedBreakdown(hours map[string]float64, lookup InitiativeLookup) string {
	if len(hours) == 0 {
		return Dim("nothing scheduled")
	}
	ids := slices.SortedFunc(maps.Keys(hours), func(x, y string) int {
		if c := cmp.Compare(hours[y], hours[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, initiativeName(lookup, id)+" "+Dim(Hours(hours[id])))
	}
	return strings.Join(parts, ", ")
}
