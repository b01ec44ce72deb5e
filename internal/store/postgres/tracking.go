package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const trackingColumns = `id, user_id, mood, notes, activities::text AS activities, date, created_at, updated_at`

// CreateTracking encrypts a copy of e and inserts it. A missing owner is
// ErrMissingReference.
func (s *Store) CreateTracking(ctx context.Context, e *models.TrackingEntry) error {
	row := *e
	if err := s.encrypt(&row); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracking_entries (id, user_id, mood, notes, activities, date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::text::text[], $6, $7, $8)`,
		row.ID, row.UserID, string(row.Mood), row.Notes, row.Activities, row.Date, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrMissingReference
		}
		return fmt.Errorf("insert tracking entry: %w", err)
	}
	return nil
}

// GetTracking returns the decrypted entry or ErrNotFound.
func (s *Store) GetTracking(ctx context.Context, id string) (*models.TrackingEntry, error) {
	var e models.TrackingEntry
	err := s.db.GetContext(ctx, &e, `SELECT `+trackingColumns+` FROM tracking_entries WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get tracking entry: %w", err)
	}
	if err := s.decrypt(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindTracking deliberately has no ORDER BY; callers sort what they get.
func (s *Store) FindTracking(ctx context.Context, q store.TrackingQuery) ([]models.TrackingEntry, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{q.UserID}

	if q.StartDate != "" {
		args = append(args, q.StartDate)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if q.EndDate != "" {
		args = append(args, q.EndDate)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query := "SELECT " + trackingColumns + " FROM tracking_entries " + where
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	out := []models.TrackingEntry{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("find tracking entries: %w", err)
	}
	for i := range out {
		if err := s.decrypt(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateTracking re-encrypts the notes before writing.
func (s *Store) UpdateTracking(ctx context.Context, e *models.TrackingEntry) error {
	row := *e
	if err := s.encrypt(&row); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tracking_entries
		 SET mood = $2, notes = $3, activities = $4::text::text[], date = $5, updated_at = $6
		 WHERE id = $1`,
		row.ID, string(row.Mood), row.Notes, row.Activities, row.Date, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tracking entry: %w", err)
	}
	return requireRow(res)
}

// DeleteTracking returns ErrNotFound when no row was removed.
func (s *Store) DeleteTracking(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tracking_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tracking entry: %w", err)
	}
	return requireRow(res)
}

func (s *Store) encrypt(e *models.TrackingEntry) error {
	if s.enc == nil {
		return nil
	}
	if err := s.enc.EncryptTracking(e); err != nil {
		return fmt.Errorf("encrypt tracking entry: %w", err)
	}
	return nil
}

func (s *Store) decrypt(e *models.TrackingEntry) error {
	if s.enc == nil {
		return nil
	}
	if err := s.enc.DecryptTracking(e); err != nil {
		return fmt.Errorf("decrypt tracking entry: %w", err)
	}
	return nil
}
