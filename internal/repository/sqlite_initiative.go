package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
)

// SQLiteInitiativeRepo implements InitiativeRepo over a DBTX.
type SQLiteInitiativeRepo struct {
	db db.DBTX
}

// NewSQLiteInitiativeRepo creates a new SQLiteInitiativeRepo.
func NewSQLiteInitiativeRepo(conn db.DBTX) *SQLiteInitiativeRepo {
	return &SQLiteInitiativeRepo{db: conn}
}

const initiativeColumns = `id, name, description, color, icon, estimated_hours, closed_at, created_at`

func (r *SQLiteInitiativeRepo) Create(ctx context.Context, i *domain.Initiative) error {
	query := `INSERT INTO initiatives (` + initiativeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.Name,
		i.Description,
		domain.CoalesceStr(i.Color, domain.DefaultColor),
		i.Icon,
		nullableFloatToValue(i.EstimatedHours),
		nullableTimeToString(i.ClosedAt),
		formatTimestamp(i.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting initiative: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives WHERE id = ?`
	i, err := scanInitiative(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("initiative %s: %w", id, ErrNotFound)
	}
	return i, err
}

// List returns every initiative in creation order.
func (r *SQLiteInitiativeRepo) List(ctx context.Context) ([]*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing initiatives: %w", err)
	}
	defer rows.Close()

	initiatives := []*domain.Initiative{}
	for rows.Next() {
		i, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating initiatives: %w", err)
	}
	return initiatives, nil
}

func (r *SQLiteInitiativeRepo) Update(ctx context.Context, i *domain.Initiative) error {
	query := `UPDATE initiatives SET name = ?, description = ?, color = ?, icon = ?, estimated_hours = ?, closed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Name,
		i.Description,
		domain.CoalesceStr(i.Color, domain.DefaultColor),
		i.Icon,
		nullableFloatToValue(i.EstimatedHours),
		nullableTimeToString(i.ClosedAt),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating initiative: %w", err)
	}
	return checkAffected(res, "updating initiative "+i.ID)
}

// Delete removes one initiative. Its blocks must already be gone; the
// foreign key rejects the delete otherwise.
func (r *SQLiteInitiativeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM initiatives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting initiative: %w", err)
	}
	return checkAffected(res, "deleting initiative "+id)
}

func (r *SQLiteInitiativeRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM initiatives`); err != nil {
		return fmt.Errorf("deleting all initiatives: %w", err)
	}
	return nil
}

func scanInitiative(s scanner) (*domain.Initiative, error) {
	var i domain.Initiative
	var estimate sql.NullFloat64
	var closedAt sql.NullString
	var createdAt string

	err := s.Scan(&i.ID, &i.Name, &i.Description, &i.Color, &i.Icon, &estimate, &closedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning initiative: %w", err)
	}

	i.Color = domain.CoalesceStr(i.Color, domain.DefaultColor)
	i.EstimatedHours = parseNullableFloat(estimate)
	i.ClosedAt = parseNullableTime(closedAt)
	i.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing initiative created_at: %w", err)
	}
	return &i, nil
}
