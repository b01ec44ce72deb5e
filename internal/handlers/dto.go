package handlers

import (
	"encoding/json"
	"time"

	"peacenest/internal/models"
	"peacenest/internal/services"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	credentials
	Name string `json:"name"`
}

// profileRequest lists only the patchable fields, so email, password and uid
// in the body are dropped on decode.
type profileRequest struct {
	Name        *string         `json:"name"`
	Avatar      *string         `json:"avatar"`
	Preferences json.RawMessage `json:"preferences"`
}

func (p profileRequest) toPatch() services.ProfilePatch {
	return services.ProfilePatch{Name: p.Name, Avatar: p.Avatar, Preferences: p.Preferences}
}

type authResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

type trackingRequest struct {
	Mood       models.Mood `json:"mood"`
	Notes      *string     `json:"notes"`
	Activities []string    `json:"activities"`
	Date       string      `json:"date"`
}

func (t trackingRequest) toInput() services.TrackingInput {
	return services.TrackingInput{Mood: t.Mood, Notes: t.Notes, Activities: t.Activities, Date: t.Date}
}

type trackingPatchRequest struct {
	Mood       *models.Mood `json:"mood"`
	Notes      *string      `json:"notes"`
	Activities *[]string    `json:"activities"`
	Date       *string      `json:"date"`
}

func (t trackingPatchRequest) toPatch() services.TrackingPatch {
	return services.TrackingPatch{Mood: t.Mood, Notes: t.Notes, Activities: t.Activities, Date: t.Date}
}

type articleRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Summary     *string    `json:"summary"`
	Category    *string    `json:"category"`
	Author      *string    `json:"author"`
	ImageURL    *string    `json:"imageUrl"`
	ReadTime    *int       `json:"readTime"`
	Tags        *[]string  `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (a articleRequest) toInput() services.ArticleInput {
	return services.ArticleInput{
		Title:       a.Title,
		Content:     a.Content,
		Summary:     a.Summary,
		Category:    a.Category,
		Author:      a.Author,
		ImageURL:    a.ImageURL,
		ReadTime:    a.ReadTime,
		Tags:        a.Tags,
		PublishedAt: a.PublishedAt,
	}
}

type exerciseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Technique   *string `json:"technique"`
	Duration    int     `json:"duration"`
	Inhale      int     `json:"inhale"`
	Hold        int     `json:"hold"`
	Exhale      int     `json:"exhale"`
	Cycles      int     `json:"cycles"`
	Difficulty  *string `json:"difficulty"`
}

func (e exerciseRequest) toInput() services.ExerciseInput {
	return services.ExerciseInput{
		Name:        e.Name,
		Description: e.Description,
		Technique:   e.Technique,
		Duration:    e.Duration,
		Inhale:      e.Inhale,
		Hold:        e.Hold,
		Exhale:      e.Exhale,
		Cycles:      e.Cycles,
		Difficulty:  e.Difficulty,
	}
}

type progressRequest struct {
	ExerciseID string `json:"exerciseId"`
	Completed  *bool  `json:"completed"`
	Duration   *int   `json:"duration"`
}

type meditationRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Duration    *int      `json:"duration"`
	Level       *string   `json:"level"`
	AudioURL    *string   `json:"audioUrl"`
	ImageURL    *string   `json:"imageUrl"`
	Benefits    *[]string `json:"benefits"`
}

func (m meditationRequest) toInput() services.MeditationInput {
	return services.MeditationInput{
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Duration:    m.Duration,
		Level:       m.Level,
		AudioURL:    m.AudioURL,
		ImageURL:    m.ImageURL,
		Benefits:    m.Benefits,
	}
}

type audioRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Type        *string `json:"type"`
	URL         *string `json:"url"`
	Duration    *int    `json:"duration"`
	ImageURL    *string `json:"imageUrl"`
}

func (a audioRequest) toInput() services.AudioInput {
	return services.AudioInput{
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		Type:        a.Type,
		URL:         a.URL,
		Duration:    a.Duration,
		ImageURL:    a.ImageURL,
	}
}
