package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

type User struct {
	ID           string         `db:"id" json:"uid"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Avatar       *string        `db:"avatar" json:"avatar,omitempty"`
	Preferences  types.JSONText `db:"preferences" json:"preferences,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// Mood is one of the five ordered levels a tracking entry can record.
type Mood string

const (
	MoodVeryBad  Mood = "very_bad"
	MoodBad      Mood = "bad"
	MoodNeutral  Mood = "neutral"
	MoodGood     Mood = "good"
	MoodVeryGood Mood = "very_good"
)

var moodScores = map[Mood]int{
	MoodVeryBad:  1,
	MoodBad:      2,
	MoodNeutral:  3,
	MoodGood:     4,
	MoodVeryGood: 5,
}

func (m Mood) Valid() bool {
	_, ok := moodScores[m]
	return ok
}

// Score maps the mood onto 1..5. Unknown values count as neutral.
func (m Mood) Score() int {
	if s, ok := moodScores[m]; ok {
		return s
	}
	return moodScores[MoodNeutral]
}

type TrackingEntry struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"userId"`
	Mood       Mood           `db:"mood" json:"mood"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
	Activities pq.StringArray `db:"activities" json:"activities,omitempty"`
	Date       string         `db:"date" json:"date"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  *time.Time     `db:"updated_at" json:"updatedAt,omitempty"`
}

type ActivityCount struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TrackingStats struct {
	TotalEntries     int             `json:"totalEntries"`
	MoodDistribution map[Mood]int    `json:"moodDistribution"`
	AverageMood      *float64        `json:"averageMood"`
	CommonActivities []ActivityCount `json:"commonActivities"`
	Period           *Period         `json:"period,omitempty"`
}

type Article struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Content     string         `db:"content" json:"content"`
	Summary     *string        `db:"summary" json:"summary,omitempty"`
	Category    string         `db:"category" json:"category"`
	Author      *string        `db:"author" json:"author,omitempty"`
	ImageURL    *string        `db:"image_url" json:"imageUrl,omitempty"`
	ReadTime    *int           `db:"read_time" json:"readTime,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags,omitempty"`
	PublishedAt time.Time      `db:"published_at" json:"publishedAt"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

type BreathingExercise struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Technique   *string   `db:"technique" json:"technique,omitempty"`
	Duration    int       `db:"duration" json:"duration"` // seconds
	Inhale      int       `db:"inhale" json:"inhale"`
	Hold        int       `db:"hold" json:"hold"`
	Exhale      int       `db:"exhale" json:"exhale"`
	Cycles      int       `db:"cycles" json:"cycles"`
	Difficulty  *string   `db:"difficulty" json:"difficulty,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type BreathingProgress struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	ExerciseID  string    `db:"exercise_id" json:"exerciseId"`
	Completed   bool      `db:"completed" json:"completed"`
	Duration    *int      `db:"duration" json:"duration,omitempty"`
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}

// Meditation is a guided session. Duration is in minutes.
type Meditation struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Category    string         `db:"category" json:"category"`
	Duration    int            `db:"duration" json:"duration"`
	Level       *string        `db:"level" json:"level,omitempty"`
	AudioURL    *string        `db:"audio_url" json:"audioUrl,omitempty"`
	ImageURL    *string        `db:"image_url" json:"imageUrl,omitempty"`
	Benefits    pq.StringArray `db:"benefits" json:"benefits,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Audio is a relaxation track. Type is the kind of sound (nature, music,
// ambient). Duration is in seconds.
type Audio struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	Type        string    `db:"type" json:"type"`
	URL         *string   `db:"url" json:"url,omitempty"`
	Duration    *int      `db:"duration" json:"duration,omitempty"`
	ImageURL    *string   `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
