package domain

import "math"

// Hours policy shared by every scheduling path.
const (
	DefaultDailyHours = 8.0
	MinDailyHours     = 0.5
	MaxDailyHours     = 24.0
)

// ClampHours bounds h to [MinDailyHours, MaxDailyHours].
func ClampHours(h float64) float64 {
	return math.Max(MinDailyHours, math.Min(MaxDailyHours, h))
}

// HoursOrDefault returns hours[key] when present and positive, otherwise
// DefaultDailyHours.
func HoursOrDefault(hours map[string]float64, key string) float64 {
	if h, ok := hours[key]; ok && h > 0 {
		return h
	}
	return DefaultDailyHours
}

// ValidHours reports whether h is a usable hour value before clamping.
func ValidHours(h float64) bool {
	return !math.IsNaN(h) && !math.IsInf(h, 0)
}

// SumHours adds every value of a date→hours or id→hours map.
func SumHours(hours map[string]float64) float64 {
	var total float64
	for _, h := range hours {
		total += h
	}
	return total
}
