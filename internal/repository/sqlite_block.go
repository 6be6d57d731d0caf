package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// SQLiteBlockRepo implements BlockRepo over the scheduled_initiatives table.
type SQLiteBlockRepo struct {
	db db.DBTX
}

// NewSQLiteBlockRepo creates a new SQLiteBlockRepo.
func NewSQLiteBlockRepo(conn db.DBTX) *SQLiteBlockRepo {
	return &SQLiteBlockRepo{db: conn}
}

const blockColumns = `id, initiative_id, start_date, end_date, hours_per_day, created_at`

func (r *SQLiteBlockRepo) Create(ctx context.Context, b *domain.ScheduledBlock) error {
	hours, err := encodeHours(b.HoursPerDay)
	if err != nil {
		return err
	}
	query := `INSERT INTO scheduled_initiatives (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		b.ID,
		b.InitiativeID,
		workweek.Key(b.StartDate),
		workweek.Key(b.EndDate),
		hours,
		formatTimestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting scheduled block: %w", err)
	}
	return nil
}

func (r *SQLiteBlockRepo) GetByID(ctx context.Context, id string) (*domain.ScheduledBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM scheduled_initiatives WHERE id = ?`
	b, err := scanBlock(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scheduled block %s: %w", id, ErrNotFound)
	}
	return b, err
}

// List returns every block in creation order.
func (r *SQLiteBlockRepo) List(ctx context.Context) ([]*domain.ScheduledBlock, error) {
	return r.query(ctx, `SELECT `+blockColumns+` FROM scheduled_initiatives ORDER BY created_at, rowid`)
}

func (r *SQLiteBlockRepo) ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.ScheduledBlock, error) {
	return r.query(ctx, `SELECT `+blockColumns+` FROM scheduled_initiatives
		WHERE initiative_id = ? ORDER BY start_date, rowid`, initiativeID)
}

// ListCovering returns the blocks whose inclusive range contains date.
func (r *SQLiteBlockRepo) ListCovering(ctx context.Context, date time.Time) ([]*domain.ScheduledBlock, error) {
	key := workweek.Key(date)
	return r.query(ctx, `SELECT `+blockColumns+` FROM scheduled_initiatives
		WHERE start_date <= ? AND end_date >= ? ORDER BY created_at, rowid`, key, key)
}

func (r *SQLiteBlockRepo) Update(ctx context.Context, b *domain.ScheduledBlock) error {
	hours, err := encodeHours(b.HoursPerDay)
	if err != nil {
		return err
	}
	query := `UPDATE scheduled_initiatives SET start_date = ?, end_date = ?, hours_per_day = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		workweek.Key(b.StartDate),
		workweek.Key(b.EndDate),
		hours,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scheduled block: %w", err)
	}
	return checkAffected(res, "updating scheduled block "+b.ID)
}

func (r *SQLiteBlockRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_initiatives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scheduled block: %w", err)
	}
	return checkAffected(res, "deleting scheduled block "+id)
}

// DeleteByInitiative removes every block of an initiative and reports how
// many rows went.
func (r *SQLiteBlockRepo) DeleteByInitiative(ctx context.Context, initiativeID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_initiatives WHERE initiative_id = ?`, initiativeID)
	if err != nil {
		return 0, fmt.Errorf("deleting blocks of initiative: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting blocks of initiative: rows affected: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteBlockRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_initiatives`); err != nil {
		return fmt.Errorf("deleting all scheduled blocks: %w", err)
	}
	return nil
}

func (r *SQLiteBlockRepo) query(ctx context.Context, query string, args ...any) ([]*domain.ScheduledBlock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled blocks: %w", err)
	}
	defer rows.Close()

	blocks := []*domain.ScheduledBlock{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled blocks: %w", err)
	}
	return blocks, nil
}

func scanBlock(s scanner) (*domain.ScheduledBlock, error) {
	var b domain.ScheduledBlock
	var start, end, hours, createdAt string

	if err := s.Scan(&b.ID, &b.InitiativeID, &start, &end, &hours, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning scheduled block: %w", err)
	}

	var err error
	if b.StartDate, err = workweek.ParseDate(start); err != nil {
		return nil, fmt.Errorf("parsing start_date of block %s: %w", b.ID, err)
	}
	if b.EndDate, err = workweek.ParseDate(end); err != nil {
		return nil, fmt.Errorf("parsing end_date of block %s: %w", b.ID, err)
	}
	if b.HoursPerDay, err = decodeDateHours(hours); err != nil {
		return nil, fmt.Errorf("block %s: %w", b.ID, err)
	}
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at of block %s: %w", b.ID, err)
	}
	return &b, nil
}
