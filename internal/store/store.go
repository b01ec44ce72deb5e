// Package store defines the persistence interfaces the services depend on.
// Implementations live in store/postgres and store/memory.
package store

import (
	"context"
	"errors"

	"peacenest/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference means a row points at a parent that does not exist,
	// such as a tracking entry for a deleted user.
	ErrMissingReference = errors.New("referenced record missing")
)

type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// DeleteUser succeeds whether or not the user exists.
	DeleteUser(ctx context.Context, id string) error
}

// TrackingQuery filters entries by owner and inclusive date bounds.
// Bounds compare as strings. Limit <= 0 means no limit. Results come back in
// store order, not sorted.
type TrackingQuery struct {
	UserID    string
	StartDate string
	EndDate   string
	Limit     int
}

type TrackingStore interface {
	// CreateTracking returns ErrMissingReference when the owner is gone.
	CreateTracking(ctx context.Context, e *models.TrackingEntry) error
	GetTracking(ctx context.Context, id string) (*models.TrackingEntry, error)
	FindTracking(ctx context.Context, q TrackingQuery) ([]models.TrackingEntry, error)
	UpdateTracking(ctx context.Context, e *models.TrackingEntry) error
	DeleteTracking(ctx context.Context, id string) error
}

type ArticleStore interface {
	CreateArticle(ctx context.Context, a *models.Article) error
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// ListArticles orders by published date, newest first. Empty category lists all.
	ListArticles(ctx context.Context, category string) ([]models.Article, error)
	UpdateArticle(ctx context.Context, a *models.Article) error
	DeleteArticle(ctx context.Context, id string) error
}

type BreathingStore interface {
	CreateExercise(ctx context.Context, e *models.BreathingExercise) error
	GetExercise(ctx context.Context, id string) (*models.BreathingExercise, error)
	// ListExercises orders by duration, shortest first.
	ListExercises(ctx context.Context) ([]models.BreathingExercise, error)
	// CreateProgress returns ErrMissingReference when the user or exercise is gone.
	CreateProgress(ctx context.Context, p *models.BreathingProgress) error
	// ListProgress orders by completion time, newest first.
	ListProgress(ctx context.Context, userID string, limit int) ([]models.BreathingProgress, error)
}

// MeditationFilter narrows ListMeditations. MaxDuration <= 0 means no bound.
type MeditationFilter struct {
	Category    string
	MaxDuration int
}

type MeditationStore interface {
	CreateMeditation(ctx context.Context, m *models.Meditation) error
	GetMeditation(ctx context.Context, id string) (*models.Meditation, error)
	// ListMeditations orders by creation time, newest first.
	ListMeditations(ctx context.Context, f MeditationFilter) ([]models.Meditation, error)
	UpdateMeditation(ctx context.Context, m *models.Meditation) error
	DeleteMeditation(ctx context.Context, id string) error
}

// AudioFilter narrows ListAudios. Empty fields do not filter.
type AudioFilter struct {
	Category string
	Type     string
}

type AudioStore interface {
	CreateAudio(ctx context.Context, a *models.Audio) error
	GetAudio(ctx context.Context, id string) (*models.Audio, error)
	// ListAudios orders by title.
	ListAudios(ctx context.Context, f AudioFilter) ([]models.Audio, error)
	// AudioCategories returns the distinct non-empty categories, sorted.
	AudioCategories(ctx context.Context) ([]string, error)
	UpdateAudio(ctx context.Context, a *models.Audio) error
	DeleteAudio(ctx context.Context, id string) error
}
