// Package snapshot converts a board to and from a portable YAML or JSON
// document used by export and import.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Version is the document version written by FromBoard.
const Version = 1

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks JSON for a .json file and YAML for anything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown snapshot format %q (want yaml or json)", domain.ErrValidation, s)
	}
}

type Snapshot struct {
	Version     int               `yaml:"version" json:"version"`
	ExportedAt  time.Time         `yaml:"exported_at" json:"exported_at"`
	Initiatives []InitiativeEntry `yaml:"initiatives" json:"initiatives"`
	Blocks      []BlockEntry      `yaml:"blocks" json:"blocks"`
	ClosedDays  []ClosedDayEntry  `yaml:"closed_days" json:"closed_days"`
}

type InitiativeEntry struct {
	ID             string     `yaml:"id" json:"id"`
	Name           string     `yaml:"name" json:"name"`
	Description    string     `yaml:"description,omitempty" json:"description,omitempty"`
	Color          string     `yaml:"color,omitempty" json:"color,omitempty"`
	Icon           string     `yaml:"icon,omitempty" json:"icon,omitempty"`
	EstimatedHours *float64   `yaml:"estimated_hours,omitempty" json:"estimated_hours,omitempty"`
	ClosedAt       *time.Time `yaml:"closed_at,omitempty" json:"closed_at,omitempty"`
	CreatedAt      time.Time  `yaml:"created_at" json:"created_at"`
}

type BlockEntry struct {
	ID           string             `yaml:"id" json:"id"`
	InitiativeID string             `yaml:"initiative_id" json:"initiative_id"`
	StartDate    string             `yaml:"start_date" json:"start_date"`
	EndDate      string             `yaml:"end_date" json:"end_date"`
	HoursPerDay  map[string]float64 `yaml:"hours_per_day" json:"hours_per_day"`
	CreatedAt    time.Time          `yaml:"created_at" json:"created_at"`
}

type ClosedDayEntry struct {
	ID            string             `yaml:"id" json:"id"`
	Date          string             `yaml:"date" json:"date"`
	ClosedAt      time.Time          `yaml:"closed_at" json:"closed_at"`
	ConsumedHours map[string]float64 `yaml:"consumed_hours" json:"consumed_hours"`
}

// FromBoard copies a board into a snapshot.
func FromBoard(b *state.Board, now time.Time) *Snapshot {
	s := &Snapshot{
		Version:     Version,
		ExportedAt:  now.UTC(),
		Initiatives: make([]InitiativeEntry, 0, len(b.Initiatives)),
		Blocks:      make([]BlockEntry, 0, len(b.Blocks)),
		ClosedDays:  make([]ClosedDayEntry, 0, len(b.ClosedDays)),
	}
	for _, i := range b.Initiatives {
		c := i.Clone()
		s.Initiatives = append(s.Initiatives, InitiativeEntry{
			ID:             c.ID,
			Name:           c.Name,
			Description:    c.Description,
			Color:          c.Color,
			Icon:           c.Icon,
			EstimatedHours: c.EstimatedHours,
			ClosedAt:       c.ClosedAt,
			CreatedAt:      c.CreatedAt,
		})
	}
	for _, blk := range b.Blocks {
		c := blk.Clone()
		s.Blocks = append(s.Blocks, BlockEntry{
			ID:           c.ID,
			InitiativeID: c.InitiativeID,
			StartDate:    workweek.Key(c.StartDate),
			EndDate:      workweek.Key(c.EndDate),
			HoursPerDay:  c.HoursPerDay,
			CreatedAt:    c.CreatedAt,
		})
	}
	for _, d := range b.ClosedDays {
		c := d.Clone()
		s.ClosedDays = append(s.ClosedDays, ClosedDayEntry{
			ID:            c.ID,
			Date:          c.Key(),
			ClosedAt:      c.ClosedAt,
			ConsumedHours: c.ConsumedHours,
		})
	}
	return s
}

// Board validates the snapshot and builds a board from it. Missing IDs are
// generated, missing colors default, timestamp-shaped dates are truncated.
// Every closed day must match the hours its blocks hold on that date.
func (s *Snapshot) Board() (*state.Board, error) {
	if s.Version != Version {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrValidation, s.Version)
	}
	b := state.New()
	ids := map[string]bool{}
	claim := func(kind, id string) (string, error) {
		if id == "" {
			id = uuid.New().String()
		}
		if ids[id] {
			return "", fmt.Errorf("%w: duplicate %s id %s", domain.ErrValidation, kind, id)
		}
		ids[id] = true
		return id, nil
	}

	for n, e := range s.Initiatives {
		id, err := claim("initiative", e.ID)
		if err != nil {
			return nil, err
		}
		in := domain.InitiativeInput{Name: e.Name, Description: e.Description, Color: e.Color, Icon: e.Icon, EstimatedHours: e.EstimatedHours}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("initiative #%d: %w", n+1, err)
		}
		i := &domain.Initiative{ID: id, CreatedAt: e.CreatedAt.UTC()}
		in.Apply(i)
		if e.ClosedAt != nil {
			t := e.ClosedAt.UTC()
			i.ClosedAt = &t
		}
		b.AddInitiative(i)
	}

	for n, e := range s.Blocks {
		id, err := claim("block", e.ID)
		if err != nil {
			return nil, err
		}
		blk, err := e.block(id)
		if err != nil {
			return nil, fmt.Errorf("block #%d: %w", n+1, err)
		}
		if _, ok := b.Initiative(blk.InitiativeID); !ok {
			return nil, fmt.Errorf("%w: block #%d references unknown initiative %s", domain.ErrValidation, n+1, blk.InitiativeID)
		}
		for _, other := range b.BlocksOf(blk.InitiativeID) {
			if other.OverlapsRange(blk.StartDate, blk.EndDate) {
				return nil, fmt.Errorf("%w: block #%d overlaps block %s of the same initiative", domain.ErrValidation, n+1, other.DisplayID())
			}
		}
		b.AddBlocks(blk)
	}

	for n, e := range s.ClosedDays {
		id, err := claim("closed day", e.ID)
		if err != nil {
			return nil, err
		}
		date, err := workweek.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: closed day #%d: %v", domain.ErrValidation, n+1, err)
		}
		if !workweek.IsWorkDay(date) {
			return nil, fmt.Errorf("%w: closed day #%d falls on a %s", domain.ErrValidation, n+1, date.Weekday())
		}
		if b.IsClosed(date) {
			return nil, fmt.Errorf("%w: %s is closed twice", domain.ErrValidation, workweek.Key(date))
		}
		consumed := map[string]float64{}
		for k, h := range e.ConsumedHours {
			if !domain.ValidHours(h) || h < 0 {
				return nil, fmt.Errorf("%w: closed day %s has invalid hours %v for %s", domain.ErrValidation, workweek.Key(date), h, k)
			}
			if h > 0 {
				consumed[k] = h
			}
		}
		if !sameHours(consumed, domain.SnapshotConsumed(date, b.Blocks)) {
			return nil, fmt.Errorf("%w: closed day %s does not match the hours scheduled on it", domain.ErrValidation, workweek.Key(date))
		}
		b.AddClosedDay(&domain.ClosedDay{ID: id, Date: date, ClosedAt: e.ClosedAt.UTC(), ConsumedHours: consumed})
	}
	return b, nil
}

func (e BlockEntry) block(id string) (*domain.ScheduledBlock, error) {
	start, err := workweek.ParseDate(e.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date: %v", domain.ErrValidation, err)
	}
	end, err := workweek.ParseDate(e.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date: %v", domain.ErrValidation, err)
	}
	hours := make(map[string]float64, len(e.HoursPerDay))
	for k, h := range e.HoursPerDay {
		d, err := workweek.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("%w: hours key %q: %v", domain.ErrValidation, k, err)
		}
		hours[workweek.Key(d)] += h
	}
	blk := &domain.ScheduledBlock{
		ID:           id,
		InitiativeID: e.InitiativeID,
		StartDate:    start,
		EndDate:      end,
		HoursPerDay:  hours,
		CreatedAt:    e.CreatedAt.UTC(),
	}
	if err := blk.Validate(); err != nil {
		return nil, err
	}
	return blk, nil
}

func sameHours(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || math.Abs(v-w) > 1e-9 {
			return false
		}
	}
	return true
}

// Encode writes s in the given format.
func Encode(w io.Writer, s *Snapshot, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("snapshot: encode json: %w", err)
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("snapshot: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("snapshot: encode yaml: %w", err)
		}
	}
	return nil
}

// Decode reads a snapshot in the given format. Unknown fields are rejected.
func Decode(r io.Reader, f Format) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: snapshot is empty", domain.ErrValidation)
	}
	var s Snapshot
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", domain.ErrValidation, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", domain.ErrValidation, err)
		}
	}
	return &s, nil
}
