package workweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-03 is a Monday.
var (
	mon = MustParseDate("2024-06-03")
	wed = MustParseDate("2024-06-05")
	thu = MustParseDate("2024-06-06")
	fri = MustParseDate("2024-06-07")
	sat = MustParseDate("2024-06-08")
	sun = MustParseDate("2024-06-09")
)

func keys(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = Key(d)
	}
	return out
}

func TestParseDate_TruncatesTimestamps(t *testing.T) {
	cases := []string{
		"2024-06-03",
		"2024-06-03T00:00:00Z",
		"2024-06-03T15:04:05+02:00",
		"2024-06-03 00:00:00+00",
		"  2024-06-03  ",
	}
	for _, in := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "2024-06-03", Key(got), "input %q", in)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "06/03/2024", "2024-13-01", "tomorrow"} {
		_, err := ParseDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestIsWorkDay(t *testing.T) {
	assert.True(t, IsWorkDay(mon))
	assert.True(t, IsWorkDay(fri))
	assert.False(t, IsWorkDay(sat))
	assert.False(t, IsWorkDay(sun))
}

func TestWorkDaysInRange_SkipsWeekend(t *testing.T) {
	days := WorkDaysInRange(thu, MustParseDate("2024-06-11"))
	assert.Equal(t, []string{"2024-06-06", "2024-06-07", "2024-06-10", "2024-06-11"}, keys(days))
}

func TestWorkDaysInRange_SingleDayAndEmpty(t *testing.T) {
	assert.Equal(t, []string{"2024-06-03"}, keys(WorkDaysInRange(mon, mon)))
	assert.Empty(t, WorkDaysInRange(sat, sun))
	assert.Empty(t, WorkDaysInRange(fri, mon), "end before start")
}

func TestWorkDays_Restartable(t *testing.T) {
	seq := WorkDays(mon, fri)
	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 5, first)
	assert.Equal(t, first, second)
}

func TestCountWorkDays(t *testing.T) {
	assert.Equal(t, 5, CountWorkDays(mon, sun))
	assert.Equal(t, 3, CountWorkDays(mon, wed))
	assert.Equal(t, 0, CountWorkDays(sat, sun))
	assert.Equal(t, 10, CountWorkDays(mon, MustParseDate("2024-06-14")))
}

func TestAddWorkDays(t *testing.T) {
	cases := []struct {
		from string
		n    int
		want string
	}{
		{"2024-06-03", 0, "2024-06-03"},
		{"2024-06-03", 2, "2024-06-05"},
		{"2024-06-06", 2, "2024-06-10"},
		{"2024-06-07", 1, "2024-06-10"},
		{"2024-06-03", 5, "2024-06-10"},
		{"2024-06-10", -1, "2024-06-07"},
		{"2024-06-05", -3, "2024-05-31"},
	}
	for _, tc := range cases {
		got := AddWorkDays(MustParseDate(tc.from), tc.n)
		assert.Equal(t, tc.want, Key(got), "AddWorkDays(%s, %d)", tc.from, tc.n)
	}
}

func TestAddWorkDays_PreservesCount(t *testing.T) {
	for start := mon; start.Before(mon.AddDate(0, 0, 14)); start = start.AddDate(0, 0, 1) {
		if !IsWorkDay(start) {
			continue
		}
		for n := 1; n <= 12; n++ {
			end := AddWorkDays(start, n-1)
			assert.Equal(t, n, CountWorkDays(start, end), "start=%s n=%d", Key(start), n)
		}
	}
}

func TestNextAndPrevWorkDay(t *testing.T) {
	assert.Equal(t, "2024-06-10", Key(NextWorkDay(fri)))
	assert.Equal(t, "2024-06-10", Key(NextWorkDay(sat)))
	assert.Equal(t, "2024-06-07", Key(PrevWorkDay(MustParseDate("2024-06-10"))))
	assert.Equal(t, "2024-06-07", Key(PrevWorkDay(sun)))
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, "2024-06-03", Key(WeekStart(mon)))
	assert.Equal(t, "2024-06-03", Key(WeekStart(fri)))
	assert.Equal(t, "2024-06-03", Key(WeekStart(sun)), "sunday closes the week")
}

func TestWeekDaysAndWeeks(t *testing.T) {
	assert.Equal(t,
		[]string{"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07"},
		keys(WeekDays(wed)))

	weeks := Weeks(thu, 3)
	assert.Equal(t, []string{"2024-06-03", "2024-06-10", "2024-06-17"}, keys(weeks))
	assert.Nil(t, Weeks(thu, 0))
}

func TestNormalize_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	in := time.Date(2024, 6, 3, 22, 30, 0, 0, loc)
	out := Normalize(in)
	assert.Equal(t, "2024-06-03", Key(out))
	assert.Equal(t, time.UTC, out.Location())
	assert.True(t, SameDay(in, mon))
}
