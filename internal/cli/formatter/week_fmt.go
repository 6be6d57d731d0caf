package formatter

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// FormatWeek renders one work week: each day with its load bar and the hours
// per initiative.
func FormatWeek(days []metrics.DayLoad, lookup InitiativeLookup, capacity float64, today time.Time) string {
	if len(days) == 0 {
		return ""
	}
	var b strings.Builder
	var total float64
	for _, d := range days {
		total += d.Hours

		label := fmt.Sprintf("%-9s", DayLabel(d.Date))
		switch {
		case workweek.SameDay(d.Date, today):
			label = StyleBlue.Render(label)
		case d.Closed:
			label = Dim(label)
		default:
			label = StyleFg.Render(label)
		}
		marker := " "
		if d.Closed {
			marker = "🔒"
		}

		b.WriteString(fmt.Sprintf("%s %s %s %6s  %s\n",
			label, marker, RenderLoadBar(d.CapacityPct/100, 16), Hours(d.Hours), dayBreakdown(d, lookup)))
	}
	b.WriteString(fmt.Sprintf("\n%s  %s of %s capacity",
		StyleDim.Render("WEEK"), Hours(total), Hours(capacity*float64(len(days)))))

	title := "Week of " + days[0].Date.Format("Jan 2, 2006")
	return RenderBox(title, b.String())
}

func dayBreakdown(d metrics.DayLoad, lookup InitiativeLookup) string {
	ids := slices.SortedFunc(maps.Keys(d.ByInitiative), func(x, y string) int {
		if c := cmp.Compare(d.ByInitiative[y], d.ByInitiative[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, initiativeName(lookup, id)+" "+Dim(Hours(d.ByInitiative[id])))
	}
	if len(parts) == 0 {
		return Dim("free")
	}
	return strings.Join(parts, ", ")
}
