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

// AudioInput is used for create and, with nil meaning unchanged, update.
type AudioInput struct {
	Title       *string
	Description *string
	Category    *string
	Type        *string
	URL         *string
	Duration    *int
	ImageURL    *string
}

// AudioService manages the relaxation audio library.
type AudioService struct {
	audios store.AudioStore
	now    func() time.Time
}

// NewAudioService creates an AudioService over the given store.
func NewAudioService(audios store.AudioStore) *AudioService {
	return &AudioService{
		audios: audios,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns tracks ordered by title, optionally narrowed by category and type.
func (s *AudioService) List(ctx context.Context, category, kind string) ([]models.Audio, error) {
	out, err := s.audios.ListAudios(ctx, store.AudioFilter{
		Category: strings.TrimSpace(category),
		Type:     strings.TrimSpace(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("list audios: %w", err)
	}
	return out, nil
}

// ListByCategory is List with a required category.
func (s *AudioService) ListByCategory(ctx context.Context, category string) ([]models.Audio, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, models.NewValidationError(map[string]string{"category": "category is required"})
	}
	return s.List(ctx, category, "")
}

// Categories lists the distinct categories in use, sorted.
func (s *AudioService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.audios.AudioCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audio categories: %w", err)
	}
	return out, nil
}

// GetByID returns AUDIO_NOT_FOUND for an unknown id.
func (s *AudioService) GetByID(ctx context.Context, id string) (*models.Audio, error) {
	a, err := s.audios.GetAudio(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewAudioNotFoundError()
		}
		return nil, fmt.Errorf("get audio: %w", err)
	}
	return a, nil
}

// Create requires a title.
func (s *AudioService) Create(ctx context.Context, in AudioInput) (*models.Audio, error) {
	details := validateAudio(in)
	if in.Title == nil {
		details["title"] = "title is required"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	a := &models.Audio{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyAudio(a, in)

	if err := s.audios.CreateAudio(ctx, a); err != nil {
		return nil, fmt.Errorf("create audio: %w", err)
	}
	return a, nil
}

// Update applies the non-nil fields of in and returns the stored track.
func (s *AudioService) Update(ctx context.Context, id string, in AudioInput) (*models.Audio, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if details := validateAudio(in); len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	applyAudio(a, in)
	a.UpdatedAt = s.now()
	if err := s.audios.UpdateAudio(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewAudioNotFoundError()
		}
		return nil, fmt.Errorf("update audio: %w", err)
	}
	return s.GetByID(ctx, a.ID)
}

// Delete succeeds whether or not the track exists.
func (s *AudioService) Delete(ctx context.Context, id string) error {
	if err := s.audios.DeleteAudio(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete audio: %w", err)
	}
	return nil
}

func validateAudio(in AudioInput) map[string]string {
	details := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		details["title"] = "title cannot be empty"
	}
	if in.Duration != nil && *in.Duration < 0 {
		details["duration"] = "duration cannot be negative"
	}
	return details
}

func applyAudio(a *models.Audio, in AudioInput) {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		a.Description = in.Description
	}
	if in.Category != nil {
		a.Category = strings.TrimSpace(*in.Category)
	}
	if in.Type != nil {
		a.Type = strings.TrimSpace(*in.Type)
	}
	if in.URL != nil {
		a.URL = in.URL
	}
	if in.Duration != nil {
		a.Duration = in.Duration
	}
	if in.ImageURL != nil {
		a.ImageURL = in.ImageURL
	}
}
