package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const meditationColumns = `id, title, description, category, duration, level, audio_url, image_url,
	benefits::text AS benefits, created_at, updated_at`

// CreateMeditation inserts m. A taken id is ErrDuplicate.
func (s *Store) CreateMeditation(ctx context.Context, m *models.Meditation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meditations (id, title, description, category, duration, level, audio_url, image_url, benefits, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text::text[], $10, $11)`,
		m.ID, m.Title, m.Description, m.Category, m.Duration, m.Level, m.AudioURL, m.ImageURL,
		m.Benefits, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert meditation: %w", err)
	}
	return nil
}

// GetMeditation returns ErrNotFound for an unknown id.
func (s *Store) GetMeditation(ctx context.Context, id string) (*models.Meditation, error) {
	var m models.Meditation
	if err := s.db.GetContext(ctx, &m, `SELECT `+meditationColumns+` FROM meditations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get meditation: %w", err)
	}
	return &m, nil
}

// ListMeditations applies the optional category and maximum duration filters,
// newest first.
func (s *Store) ListMeditations(ctx context.Context, f store.MeditationFilter) ([]models.Meditation, error) {
	query := `SELECT ` + meditationColumns + ` FROM meditations WHERE 1=1`
	var args []interface{}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.MaxDuration > 0 {
		args = append(args, f.MaxDuration)
		query += fmt.Sprintf(` AND duration <= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id`

	out := []models.Meditation{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list meditations: %w", err)
	}
	return out, nil
}

// UpdateMeditation overwrites every mutable column.
func (s *Store) UpdateMeditation(ctx context.Context, m *models.Meditation) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE meditations
		 SET title = $2, description = $3, category = $4, duration = $5, level = $6, audio_url = $7,
		     image_url = $8, benefits = $9::text::text[], updated_at = $10
		 WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Category, m.Duration, m.Level, m.AudioURL, m.ImageURL,
		m.Benefits, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update meditation: %w", err)
	}
	return requireRow(res)
}

// DeleteMeditation succeeds whether or not the row exists.
func (s *Store) DeleteMeditation(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM meditations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete meditation: %w", err)
	}
	return nil
}
