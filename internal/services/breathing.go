package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const DefaultProgressLimit = 10

type ExerciseInput struct {
	Name        string
	Description *string
	Technique   *string
	Duration    int
	Inhale      int
	Hold        int
	Exhale      int
	Cycles      int
	Difficulty  *string
}

type ProgressInput struct {
	ExerciseID string
	Completed  bool
	Duration   *int
}

// BreathingService serves the exercise catalog and per-user progress.
type BreathingService struct {
	breathing store.BreathingStore
	users     store.UserStore
	now       func() time.Time
}

// NewBreathingService creates a BreathingService. users is consulted before
// progress is recorded.
func NewBreathingService(breathing store.BreathingStore, users store.UserStore) *BreathingService {
	return &BreathingService{
		breathing: breathing,
		users:     users,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListExercises returns every exercise, shortest first.
func (s *BreathingService) ListExercises(ctx context.Context) ([]models.BreathingExercise, error) {
	out, err := s.breathing.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return out, nil
}

// GetExercise returns EXERCISE_NOT_FOUND for an unknown id.
func (s *BreathingService) GetExercise(ctx context.Context, id string) (*models.BreathingExercise, error) {
	e, err := s.breathing.GetExercise(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewExerciseNotFoundError()
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// CreateExercise validates and stores a new exercise.
func (s *BreathingService) CreateExercise(ctx context.Context, in ExerciseInput) (*models.BreathingExercise, error) {
	details := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "name is required"
	}
	if in.Duration <= 0 {
		details["duration"] = "duration must be positive"
	}
	if in.Inhale < 0 || in.Hold < 0 || in.Exhale < 0 || in.Cycles < 0 {
		details["pattern"] = "breathing pattern values cannot be negative"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	e := &models.BreathingExercise{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Technique:   in.Technique,
		Duration:    in.Duration,
		Inhale:      in.Inhale,
		Hold:        in.Hold,
		Exhale:      in.Exhale,
		Cycles:      in.Cycles,
		Difficulty:  in.Difficulty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.breathing.CreateExercise(ctx, e); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return e, nil
}

// SaveProgress records a session for userID. The account and the exercise
// must both exist.
func (s *BreathingService) SaveProgress(ctx context.Context, userID string, in ProgressInput) (*models.BreathingProgress, error) {
	details := map[string]string{}
	if strings.TrimSpace(in.ExerciseID) == "" {
		details["exerciseId"] = "exerciseId is required"
	}
	if in.Duration != nil && *in.Duration < 0 {
		details["duration"] = "duration cannot be negative"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if _, err := s.GetExercise(ctx, in.ExerciseID); err != nil {
		return nil, err
	}

	p := &models.BreathingProgress{
		ID:          uuid.NewString(),
		UserID:      userID,
		ExerciseID:  strings.TrimSpace(in.ExerciseID),
		Completed:   in.Completed,
		Duration:    in.Duration,
		CompletedAt: s.now(),
	}
	if err := s.breathing.CreateProgress(ctx, p); err != nil {
		if errors.Is(err, store.ErrMissingReference) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// ListProgress returns the user's most recent sessions. A non-positive
// limit falls back to DefaultProgressLimit.
func (s *BreathingService) ListProgress(ctx context.Context, userID string, limit int) ([]models.BreathingProgress, error) {
	if limit <= 0 {
		limit = DefaultProgressLimit
	}
	out, err := s.breathing.ListProgress(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}
