package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/workweek"
)

// timestampLayout has a fixed-width fraction so stored values sort in time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts the fixed layout and plain RFC 3339 values.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := parseTimestamp(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func nullableFloatToValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// encodeHours serializes a date- or id-keyed hours map as a JSON object.
func encodeHours(hours map[string]float64) (string, error) {
	if hours == nil {
		hours = map[string]float64{}
	}
	b, err := json.Marshal(hours)
	if err != nil {
		return "", fmt.Errorf("encoding hours: %w", err)
	}
	return string(b), nil
}

// decodeHours parses a JSON hours object. Empty input yields an empty map.
func decodeHours(s string) (map[string]float64, error) {
	hours := map[string]float64{}
	if s == "" {
		return hours, nil
	}
	if err := json.Unmarshal([]byte(s), &hours); err != nil {
		return nil, fmt.Errorf("decoding hours: %w", err)
	}
	return hours, nil
}

// decodeDateHours is decodeHours for date-keyed maps. Keys written as full
// timestamps are truncated to yyyy-MM-dd; values on the same date are summed.
func decodeDateHours(s string) (map[string]float64, error) {
	raw, err := decodeHours(s)
	if err != nil {
		return nil, err
	}
	hours := make(map[string]float64, len(raw))
	for k, h := range raw {
		d, err := workweek.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("decoding hours: %w", err)
		}
		hours[workweek.Key(d)] += h
	}
	return hours, nil
}

func checkAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
