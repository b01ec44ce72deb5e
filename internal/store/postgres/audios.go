package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const audioColumns = `id, title, description, category, type, url, duration, image_url, created_at, updated_at`

// CreateAudio inserts a with a named statement over the struct's db tags.
func (s *Store) CreateAudio(ctx context.Context, a *models.Audio) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO audios (`+audioColumns+`)
		 VALUES (:id, :title, :description, :category, :type, :url, :duration, :image_url, :created_at, :updated_at)`,
		a,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert audio: %w", err)
	}
	return nil
}

// GetAudio returns ErrNotFound for an unknown id.
func (s *Store) GetAudio(ctx context.Context, id string) (*models.Audio, error) {
	var a models.Audio
	if err := s.db.GetContext(ctx, &a, `SELECT `+audioColumns+` FROM audios WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get audio: %w", err)
	}
	return &a, nil
}

// ListAudios applies the optional category and type filters, ordered by title.
func (s *Store) ListAudios(ctx context.Context, f store.AudioFilter) ([]models.Audio, error) {
	query := `SELECT ` + audioColumns + ` FROM audios WHERE 1=1`
	var args []interface{}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	query += ` ORDER BY title ASC, id`

	out := []models.Audio{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list audios: %w", err)
	}
	return out, nil
}

// AudioCategories lists distinct non-empty categories in order.
func (s *Store) AudioCategories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT category FROM audios WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list audio categories: %w", err)
	}
	return out, nil
}

// UpdateAudio overwrites every mutable column.
func (s *Store) UpdateAudio(ctx context.Context, a *models.Audio) error {
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE audios
		 SET title = :title, description = :description, category = :category, type = :type,
		     url = :url, duration = :duration, image_url = :image_url, updated_at = :updated_at
		 WHERE id = :id`,
		a,
	)
	if err != nil {
		return fmt.Errorf("update audio: %w", err)
	}
	return requireRow(res)
}

// DeleteAudio succeeds whether or not the row exists.
func (s *Store) DeleteAudio(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audios WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete audio: %w", err)
	}
	return nil
}
