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

// SQLiteClosedDayRepo implements ClosedDayRepo.
type SQLiteClosedDayRepo struct {
	db db.DBTX
}

func NewSQLiteClosedDayRepo(conn db.DBTX) *SQLiteClosedDayRepo {
	return &SQLiteClosedDayRepo{db: conn}
}

const closedDayColumns = `id, date, closed_at, consumed_hours`

func (r *SQLiteClosedDayRepo) Create(ctx context.Context, c *domain.ClosedDay) error {
	consumed, err := encodeHours(c.ConsumedHours)
	if err != nil {
		return err
	}
	query := `INSERT INTO closed_days (` + closedDayColumns + `) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		workweek.Key(c.Date),
		formatTimestamp(c.ClosedAt),
		consumed,
	)
	if err != nil {
		return fmt.Errorf("inserting closed day: %w", err)
	}
	return nil
}

func (r *SQLiteClosedDayRepo) GetByDate(ctx context.Context, date time.Time) (*domain.ClosedDay, error) {
	query := `SELECT ` + closedDayColumns + ` FROM closed_days WHERE date = ?`
	c, err := scanClosedDay(r.db.QueryRowContext(ctx, query, workweek.Key(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("closed day %s: %w", workweek.Key(date), ErrNotFound)
	}
	return c, err
}

// List returns closed days ordered by date.
func (r *SQLiteClosedDayRepo) List(ctx context.Context) ([]*domain.ClosedDay, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+closedDayColumns+` FROM closed_days ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing closed days: %w", err)
	}
	defer rows.Close()

	days := []*domain.ClosedDay{}
	for rows.Next() {
		c, err := scanClosedDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating closed days: %w", err)
	}
	return days, nil
}

func (r *SQLiteClosedDayRepo) DeleteByDate(ctx context.Context, date time.Time) error {
	key := workweek.Key(date)
	res, err := r.db.ExecContext(ctx, `DELETE FROM closed_days WHERE date = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting closed day: %w", err)
	}
	return checkAffected(res, "deleting closed day "+key)
}

func (r *SQLiteClosedDayRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM closed_days`); err != nil {
		return fmt.Errorf("deleting all closed days: %w", err)
	}
	return nil
}

func scanClosedDay(s scanner) (*domain.ClosedDay, error) {
	var c domain.ClosedDay
	var date, closedAt, consumed string

	if err := s.Scan(&c.ID, &date, &closedAt, &consumed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning closed day: %w", err)
	}

	var err error
	if c.Date, err = workweek.ParseDate(date); err != nil {
		return nil, fmt.Errorf("parsing closed day date: %w", err)
	}
	if c.ClosedAt, err = parseTimestamp(closedAt); err != nil {
		return nil, fmt.Errorf("parsing closed_at of %s: %w", date, err)
	}
	if c.ConsumedHours, err = decodeHours(consumed); err != nil {
		return nil, fmt.Errorf("closed day %s: %w", date, err)
	}
	return &c, nil
}
