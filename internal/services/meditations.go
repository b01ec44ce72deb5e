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

// MeditationInput is used for create and, with nil meaning unchanged, update.
type MeditationInput struct {
	Title       *string
	Description *string
	Category    *string
	Duration    *int
	Level       *string
	AudioURL    *string
	ImageURL    *string
	Benefits    *[]string
}

// MeditationService manages the guided meditation catalog.
type MeditationService struct {
	meditations store.MeditationStore
	now         func() time.Time
}

// NewMeditationService creates a MeditationService over the given store.
func NewMeditationService(meditations store.MeditationStore) *MeditationService {
	return &MeditationService{
		meditations: meditations,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// List returns meditations newest first. maxDuration <= 0 does not filter.
func (s *MeditationService) List(ctx context.Context, category string, maxDuration int) ([]models.Meditation, error) {
	out, err := s.meditations.ListMeditations(ctx, store.MeditationFilter{
		Category:    strings.TrimSpace(category),
		MaxDuration: maxDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("list meditations: %w", err)
	}
	return out, nil
}

// ListByCategory is List with a required category.
func (s *MeditationService) ListByCategory(ctx context.Context, category string) ([]models.Meditation, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError(map[string]string{"category": "category is required"})
	}
	return s.List(ctx, category, 0)
}

// GetByID returns MEDITATION_NOT_FOUND for an unknown id.
func (s *MeditationService) GetByID(ctx context.Context, id string) (*models.Meditation, error) {
	m, err := s.meditations.GetMeditation(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewMeditationNotFoundError()
		}
		return nil, fmt.Errorf("get meditation: %w", err)
	}
	return m, nil
}

// Create requires a title. Duration defaults to zero.
func (s *MeditationService) Create(ctx context.Context, in MeditationInput) (*models.Meditation, error) {
	details := validateMeditation(in)
	if in.Title == nil {
		details["title"] = "title is required"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	m := &models.Meditation{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyMeditation(m, in)

	if err := s.meditations.CreateMeditation(ctx, m); err != nil {
		return nil, fmt.Errorf("create meditation: %w", err)
	}
	return m, nil
}

// Update applies the non-nil fields of in and returns the stored meditation.
func (s *MeditationService) Update(ctx context.Context, id string, in MeditationInput) (*models.Meditation, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if details := validateMeditation(in); len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	applyMeditation(m, in)
	m.UpdatedAt = s.now()
	if err := s.meditations.UpdateMeditation(ctx, m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewMeditationNotFoundError()
		}
		return nil, fmt.Errorf("update meditation: %w", err)
	}
	return s.GetByID(ctx, m.ID)
}

// Delete succeeds whether or not the meditation exists.
func (s *MeditationService) Delete(ctx context.Context, id string) error {
	if err := s.meditations.DeleteMeditation(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete meditation: %w", err)
	}
	return nil
}

func validateMeditation(in MeditationInput) map[string]string {
	details := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		details["title"] = "title cannot be empty"
	}
	if in.Duration != nil && *in.Duration < 0 {
		details["duration"] = "duration cannot be negative"
	}
	return details
}

func applyMeditation(m *models.Meditation, in MeditationInput) {
	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.Category != nil {
		m.Category = strings.TrimSpace(*in.Category)
	}
	if in.Duration != nil {
		m.Duration = *in.Duration
	}
	if in.Level != nil {
		m.Level = in.Level
	}
	if in.AudioURL != nil {
		m.AudioURL = in.AudioURL
	}
	if in.ImageURL != nil {
		m.ImageURL = in.ImageURL
	}
	if in.Benefits != nil {
		m.Benefits = *in.Benefits
	}
}
