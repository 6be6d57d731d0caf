package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/spf13/pflag"
)

// parseDate accepts YYYY-MM-DD or one of today, yesterday and tomorrow,
// resolved against now.
func parseDate(s string, now time.Time) (time.Time, error) {
	today := workweek.Today(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	d, err := workweek.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, today, yesterday or tomorrow", s)
	}
	return d, nil
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "h"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	return h, nil
}

// dateValue is a pflag.Value holding a calendar date.
type dateValue struct {
	target *time.Time
	set    bool
	now    func() time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(target *time.Time, now func() time.Time) *dateValue {
	return &dateValue{target: target, now: now}
}

func (v *dateValue) String() string {
	if v.target == nil || !v.set {
		return ""
	}
	return workweek.Key(*v.target)
}

func (v *dateValue) Set(s string) error {
	d, err := parseDate(s, v.now())
	if err != nil {
		return err
	}
	*v.target = d
	v.set = true
	return nil
}

func (v *dateValue) Type() string { return "date" }
