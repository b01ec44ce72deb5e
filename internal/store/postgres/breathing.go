package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const exerciseColumns = `id, name, description, technique, duration, inhale, hold, exhale, cycles, difficulty, created_at, updated_at`

// CreateExercise inserts e. A taken id is ErrDuplicate.
func (s *Store) CreateExercise(ctx context.Context, e *models.BreathingExercise) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO breathing_exercises (`+exerciseColumns+`)
		 VALUES (:id, :name, :description, :technique, :duration, :inhale, :hold, :exhale, :cycles, :difficulty, :created_at, :updated_at)`,
		e,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert breathing exercise: %w", err)
	}
	return nil
}

// GetExercise returns ErrNotFound for an unknown id.
func (s *Store) GetExercise(ctx context.Context, id string) (*models.BreathingExercise, error) {
	var e models.BreathingExercise
	err := s.db.GetContext(ctx, &e, `SELECT `+exerciseColumns+` FROM breathing_exercises WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get breathing exercise: %w", err)
	}
	return &e, nil
}

// ListExercises orders by duration, shortest first.
func (s *Store) ListExercises(ctx context.Context) ([]models.BreathingExercise, error) {
	out := []models.BreathingExercise{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+exerciseColumns+` FROM breathing_exercises ORDER BY duration ASC, id`)
	if err != nil {
		return nil, fmt.Errorf("list breathing exercises: %w", err)
	}
	return out, nil
}

// CreateProgress inserts p. A missing user or exercise is
// ErrMissingReference.
func (s *Store) CreateProgress(ctx context.Context, p *models.BreathingProgress) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO breathing_progress (id, user_id, exercise_id, completed, duration, completed_at)
		 VALUES (:id, :user_id, :exercise_id, :completed, :duration, :completed_at)`,
		p,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrMissingReference
		}
		return fmt.Errorf("insert breathing progress: %w", err)
	}
	return nil
}

// ListProgress returns the newest sessions first. A non-positive limit
// returns all of them.
func (s *Store) ListProgress(ctx context.Context, userID string, limit int) ([]models.BreathingProgress, error) {
	query := `SELECT id, user_id, exercise_id, completed, duration, completed_at
		FROM breathing_progress WHERE user_id = $1 ORDER BY completed_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	out := []models.BreathingProgress{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list breathing progress: %w", err)
	}
	return out, nil
}
