package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func sampleBoard() (*state.Board, *domain.Initiative, *domain.Initiative) {
	b := state.New()
	api := testutil.NewTestInitiative("API rewrite", testutil.WithEstimate(16))
	docs := testutil.NewTestInitiative("Docs")
	b.AddInitiative(api)
	b.AddInitiative(docs)
	b.AddBlocks(
		testutil.NewTestBlock(api.ID, "2024-06-03", "2024-06-04"),
		testutil.NewTestBlock(docs.ID, "2024-06-04", "2024-06-04", testutil.WithDayHours("2024-06-04", 2.5)),
	)
	b.AddClosedDay(testutil.NewTestClosedDay("2024-06-03", map[string]float64{api.ID: 8}))
	return b, api, docs
}

func TestFormatInitiativeList(t *testing.T) {
	b, api, docs := sampleBoard()
	out := stripANSI(FormatInitiativeList([]metrics.InitiativeMetrics{
		metrics.ForInitiative(b, api),
		metrics.ForInitiative(b, docs),
	}))

	assert.Contains(t, out, "INITIATIVES")
	assert.Contains(t, out, "API rewrite")
	assert.Contains(t, out, "16h")
	assert.Contains(t, out, "2.5h")
	assert.Contains(t, out, "UNDER PLANNED")
	assert.Contains(t, out, "NO ESTIMATE")
}

func TestFormatInitiativeList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatInitiativeList(nil)), "No initiatives yet")
}

func TestFormatInitiativeReview(t *testing.T) {
	b, api, _ := sampleBoard()
	now := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	out := stripANSI(FormatInitiativeReview(metrics.ForInitiative(b, api), b.BlocksOf(api.ID), b.ClosedSet(), now))

	assert.Contains(t, out, "API rewrite")
	assert.Contains(t, out, "PLANNED")
	assert.Contains(t, out, "CONSUMED")
	assert.Contains(t, out, "pending", "variance waits for open days")
	assert.Contains(t, out, "Mon 06-03 → Tue 06-04")
	assert.Contains(t, out, "🔒Mon 8h")
	assert.Contains(t, out, "1 worked")
}

func TestFormatInitiativeReview_FinalVariance(t *testing.T) {
	b := state.New()
	closedAt := time.Date(2024, 6, 4, 18, 0, 0, 0, time.UTC)
	i := testutil.NewTestInitiative("Done", testutil.WithEstimate(10), testutil.WithClosedAt(closedAt))
	b.AddInitiative(i)
	b.AddBlocks(testutil.NewTestBlock(i.ID, "2024-06-03", "2024-06-03"))
	b.AddClosedDay(testutil.NewTestClosedDay("2024-06-03", map[string]float64{i.ID: 8}))

	out := stripANSI(FormatInitiativeReview(metrics.ForInitiative(b, i), b.BlocksOf(i.ID), b.ClosedSet(), closedAt))
	assert.Contains(t, out, "-2h (-20%)")
	assert.Contains(t, out, "UNDER ESTIMATE")
	assert.Contains(t, out, "FINALIZED")
}

func TestFormatBlockList(t *testing.T) {
	b, _, _ := sampleBoard()
	out := stripANSI(FormatBlockList(b.Blocks, b.Initiative, b.ClosedSet()))

	assert.Contains(t, out, "INITIATIVE")
	assert.Contains(t, out, "Docs")
	assert.Contains(t, out, "Tue 2.5h")

	assert.Contains(t, stripANSI(FormatBlockList(nil, nil, nil)), "Nothing scheduled")
}

func TestFormatDuplicateResult(t *testing.T) {
	created := []*domain.ScheduledBlock{testutil.NewTestBlock("i1", "2024-06-10", "2024-06-10")}
	out := stripANSI(FormatDuplicateResult(created, []DuplicateSkip{
		{Date: "2024-06-08", Reason: "not a work day"},
	}))
	assert.Contains(t, out, "1 block(s) created")
	assert.Contains(t, out, "1 date(s) skipped")
	assert.Contains(t, out, "not a work day")
}

func TestFormatSummary(t *testing.T) {
	b, _, _ := sampleBoard()
	out := stripANSI(FormatSummary(metrics.Summarize(b)))

	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "2 active")
	assert.Contains(t, out, "18.5h planned")
	assert.Contains(t, out, "8h consumed")
	assert.Contains(t, out, "50%")
}

func TestFormatWeek(t *testing.T) {
	b, _, _ := sampleBoard()
	today := testutil.Day("2024-06-04")
	out := stripANSI(FormatWeek(metrics.WeekLoad(b, today, 8), b.Initiative, 8, today))

	assert.Contains(t, out, "WEEK OF JUN 3, 2024")
	assert.Contains(t, out, "Mon 06-03")
	assert.Contains(t, out, "Fri 06-07")
	assert.Contains(t, out, "10.5h")
	assert.Contains(t, out, "free")
	assert.Contains(t, out, "18.5h of 40h capacity")
	assert.Empty(t, FormatWeek(nil, nil, 8, today))
}

func TestFormatClosedDays(t *testing.T) {
	b, _, _ := sampleBoard()
	out := stripANSI(FormatClosedDays(b.ClosedDays, b.Initiative))
	assert.Contains(t, out, "Mon 06-03")
	assert.Contains(t, out, "API rewrite 8h")

	empty := testutil.NewTestClosedDay("2024-06-05", nil)
	assert.Contains(t, stripANSI(FormatClosedDay(empty, b.Initiative)), "nothing scheduled")
	assert.Contains(t, stripANSI(FormatClosedDays(nil, nil)), "No days have been closed")
}

func TestFormatFinalized(t *testing.T) {
	b := state.New()
	closedAt := time.Date(2024, 6, 4, 18, 0, 0, 0, time.UTC)
	i := testutil.NewTestInitiative("Launch", testutil.WithEstimate(4), testutil.WithClosedAt(closedAt))
	b.AddInitiative(i)
	b.AddBlocks(testutil.NewTestBlock(i.ID, "2024-06-03", "2024-06-03"))
	b.AddClosedDay(testutil.NewTestClosedDay("2024-06-03", map[string]float64{i.ID: 8}))

	out := stripANSI(FormatFinalized(metrics.Finalized(b)))
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "2024-06-04")
	assert.Contains(t, out, "+4h (+100%)")
	assert.Contains(t, out, "OVER ESTIMATE")
	assert.Contains(t, out, "1 initiatives, 4h estimated, 8h consumed")

	assert.Contains(t, stripANSI(FormatFinalized(nil)), "No initiatives have been finalized")
}

func TestFormatFinalized_MatchesReviewWhileHoursPending(t *testing.T) {
	b := state.New()
	closedAt := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	i := testutil.NewTestInitiative("Alpha", testutil.WithEstimate(16), testutil.WithClosedAt(closedAt))
	b.AddInitiative(i)
	b.AddBlocks(testutil.NewTestBlock(i.ID, "2024-06-03", "2024-06-04"))
	b.AddClosedDay(testutil.NewTestClosedDay("2024-06-03", map[string]float64{i.ID: 8}))

	m := metrics.ForInitiative(b, i)
	assert.False(t, m.VarianceOK)
	assert.Equal(t, "pending", stripANSI(VarianceCell(m)))

	review := stripANSI(FormatInitiativeReview(m, b.BlocksOf(i.ID), b.ClosedSet(), closedAt))
	finalized := stripANSI(FormatFinalized(metrics.Finalized(b)))
	for _, out := range []string{review, finalized} {
		assert.Contains(t, out, "pending")
		assert.Contains(t, out, "PENDING")
		assert.NotContains(t, out, "-8h")
		assert.NotContains(t, out, "-50%")
	}
}

func TestAccuracyPill(t *testing.T) {
	tests := []struct {
		accuracy domain.Accuracy
		want     string
	}{
		{domain.AccuracyOnTarget, "✔ ON TARGET"},
		{domain.AccuracyOver, "▲ OVER ESTIMATE"},
		{domain.AccuracyUnder, "▼ UNDER ESTIMATE"},
		{domain.AccuracyPending, "… PENDING"},
		{domain.AccuracyNoEstimate, "○ NO ESTIMATE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.accuracy), func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(AccuracyPill(tt.accuracy)))
		})
	}
}
