package formatter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// FormatBlockList renders scheduled blocks. When lookup is nil the
// initiative column is omitted.
func FormatBlockList(blocks []*domain.ScheduledBlock, lookup InitiativeLookup, closed map[string]bool) string {
	if len(blocks) == 0 {
		return RenderBox("Schedule", Dim("Nothing scheduled in this range."))
	}
	return RenderBox("Schedule", strings.TrimRight(blockTable(blocks, lookup, closed), "\n"))
}

func blockTable(blocks []*domain.ScheduledBlock, lookup InitiativeLookup, closed map[string]bool) string {
	headers := []string{"ID", "DATES", "DAYS", "HOURS", "PER DAY"}
	aligns := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft}
	if lookup != nil {
		headers = slices.Insert(headers, 1, "INITIATIVE")
		aligns = slices.Insert(aligns, 1, AlignLeft)
	}

	rows := make([][]string, 0, len(blocks))
	for _, blk := range blocks {
		row := []string{
			TruncID(blk.ID),
			blockRange(blk),
			fmt.Sprint(blk.DurationWorkDays()),
			Hours(blk.TotalHours()),
			perDay(blk, closed),
		}
		if lookup != nil {
			row = slices.Insert(row, 1, initiativeName(lookup, blk.InitiativeID))
		}
		rows = append(rows, row)
	}
	return RenderAlignedTable(headers, aligns, rows)
}

// perDay lists each day's hours; closed days are dimmed with a lock.
func perDay(blk *domain.ScheduledBlock, closed map[string]bool) string {
	parts := make([]string, 0, len(blk.HoursPerDay))
	for _, k := range blk.Keys() {
		d := workweek.MustParseDate(k)
		cell := d.Format("Mon") + " " + Hours(blk.HoursPerDay[k])
		if closed[k] {
			cell = Dim("🔒" + cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "  ")
}

// DuplicateSkip is a rejected duplicate target as the formatter sees it.
type DuplicateSkip struct {
	Date   string
	Reason string
}

// FormatDuplicateResult reports how many copies were made and why the
// remaining dates were skipped.
func FormatDuplicateResult(created []*domain.ScheduledBlock, skipped []DuplicateSkip) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d block(s) created\n", StyleGreen.Render("✔"), len(created)))
	for _, blk := range created {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", TruncID(blk.ID), DayLabel(blk.StartDate), Hours(blk.TotalHours())))
	}
	if len(skipped) > 0 {
		b.WriteString(fmt.Sprintf("%s %d date(s) skipped\n", StyleYellow.Render("!"), len(skipped)))
		for _, s := range skipped {
			b.WriteString(fmt.Sprintf("  %s  %s\n", s.Date, Dim(s.Reason)))
		}
	}
	return b.String()
}
