package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const (
	DefaultTrackingLimit = 30
	MaxTrackingLimit     = 100
	MaxNotesLength       = 500
	commonActivityCount  = 5
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts the ISO-8601 shapes clients send: a plain date or a
// full timestamp.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type TrackingInput struct {
	Mood       models.Mood
	Notes      *string
	Activities []string
	Date       string
}

// TrackingPatch holds the optional fields of an update. Nil means unchanged.
type TrackingPatch struct {
	Mood       *models.Mood
	Notes      *string
	Activities *[]string
	Date       *string
}

// TrackingFilter bounds are inclusive and compared as strings.
type TrackingFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}

// TrackingService owns the mood tracking rules: validation, ownership and
// statistics.
type TrackingService struct {
	entries store.TrackingStore
	users   store.UserStore
	now     func() time.Time
}

// NewTrackingService creates a TrackingService. users is consulted so that
// entries are only created for accounts that still exist.
func NewTrackingService(entries store.TrackingStore, users store.UserStore) *TrackingService {
	return &TrackingService{
		entries: entries,
		users:   users,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func validateNotes(notes *string, details map[string]string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if utf8.RuneCountInString(trimmed) > MaxNotesLength {
		details["notes"] = fmt.Sprintf("notes cannot exceed %d characters", MaxNotesLength)
	}
	return &trimmed
}

func validateMood(m models.Mood, details map[string]string) {
	if m == "" {
		details["mood"] = "mood is required"
	} else if !m.Valid() {
		details["mood"] = "invalid mood"
	}
}

func validateDate(field, value string, details map[string]string) {
	if value == "" {
		return
	}
	if _, ok := ParseDate(value); !ok {
		details[field] = "must be an ISO-8601 date"
	}
}

func (f TrackingFilter) validate() error {
	details := map[string]string{}
	validateDate("startDate", f.StartDate, details)
	validateDate("endDate", f.EndDate, details)
	if len(details) > 0 {
		return models.NewValidationError(details)
	}
	return nil
}

// Create validates in and stores a new entry owned by userID. A deleted
// account yields USER_NOT_FOUND.
func (s *TrackingService) Create(ctx context.Context, userID string, in TrackingInput) (*models.TrackingEntry, error) {
	details := map[string]string{}
	validateMood(in.Mood, details)
	notes := validateNotes(in.Notes, details)
	validateDate("date", in.Date, details)
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	e := &models.TrackingEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Mood:       in.Mood,
		Notes:      notes,
		Activities: in.Activities,
		Date:       in.Date,
		CreatedAt:  now,
	}
	if e.Date == "" {
		e.Date = now.Format(time.RFC3339)
	}

	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := s.entries.CreateTracking(ctx, e); err != nil {
		if errors.Is(err, store.ErrMissingReference) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("create tracking entry: %w", err)
	}
	return e, nil
}

// ListForUser fetches at most Limit entries in store order and then sorts
// that page newest first. Entries outside the page are never considered.
func (s *TrackingService) ListForUser(ctx context.Context, userID string, f TrackingFilter) ([]models.TrackingEntry, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultTrackingLimit
	}
	if limit > MaxTrackingLimit {
		limit = MaxTrackingLimit
	}

	entries, err := s.entries.FindTracking(ctx, store.TrackingQuery{
		UserID:    userID,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list tracking entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return newerThan(entries[i].Date, entries[j].Date)
	})
	return entries, nil
}

// newerThan treats a missing or unparsable date as equal to anything.
func newerThan(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	if !okA || !okB {
		return false
	}
	return ta.After(tb)
}

// GetStats summarises the user's entries in the filter's date range.
func (s *TrackingService) GetStats(ctx context.Context, userID string, f TrackingFilter) (*models.TrackingStats, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindTracking(ctx, store.TrackingQuery{
		UserID:    userID,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load tracking entries: %w", err)
	}
	return computeStats(entries, f), nil
}

// computeStats works on entries in the order the store returned them.
func computeStats(entries []models.TrackingEntry, f TrackingFilter) *models.TrackingStats {
	stats := &models.TrackingStats{
		TotalEntries:     len(entries),
		MoodDistribution: map[models.Mood]int{},
		CommonActivities: []models.ActivityCount{},
	}
	if len(entries) == 0 {
		return stats
	}

	total := 0
	counts := map[string]int{}
	var seen []string
	for _, e := range entries {
		stats.MoodDistribution[e.Mood]++
		total += e.Mood.Score()
		for _, a := range e.Activities {
			if _, ok := counts[a]; !ok {
				seen = append(seen, a)
			}
			counts[a]++
		}
	}

	avg := math.Round(float64(total)/float64(len(entries))*100) / 100
	stats.AverageMood = &avg

	sort.SliceStable(seen, func(i, j int) bool { return counts[seen[i]] > counts[seen[j]] })
	if len(seen) > commonActivityCount {
		seen = seen[:commonActivityCount]
	}
	for _, a := range seen {
		stats.CommonActivities = append(stats.CommonActivities, models.ActivityCount{Activity: a, Count: counts[a]})
	}

	period := &models.Period{Start: f.StartDate, End: f.EndDate}
	if period.Start == "" {
		period.Start = entries[len(entries)-1].Date
	}
	if period.End == "" {
		period.End = entries[0].Date
	}
	stats.Period = period
	return stats
}

// GetByID does not check ownership.
func (s *TrackingService) GetByID(ctx context.Context, id string) (*models.TrackingEntry, error) {
	e, err := s.entries.GetTracking(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewTrackingNotFoundError()
		}
		return nil, fmt.Errorf("get tracking entry: %w", err)
	}
	return e, nil
}

// owned loads an entry and fails unless userID owns it.
func (s *TrackingService) owned(ctx context.Context, id, userID, action string) (*models.TrackingEntry, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, models.NewForbiddenError("not authorized to " + action + " this tracking entry")
	}
	return e, nil
}

// CheckOwner is used by readers that fetched an entry through GetByID.
func CheckOwner(e *models.TrackingEntry, userID string) error {
	if e.UserID != userID {
		return models.NewForbiddenError("not authorized to view this tracking entry")
	}
	return nil
}

// Update applies patch with last-write-wins semantics.
func (s *TrackingService) Update(ctx context.Context, id, userID string, patch TrackingPatch) (*models.TrackingEntry, error) {
	e, err := s.owned(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if patch.Mood != nil {
		validateMood(*patch.Mood, details)
		e.Mood = *patch.Mood
	}
	if patch.Notes != nil {
		e.Notes = validateNotes(patch.Notes, details)
	}
	if patch.Activities != nil {
		e.Activities = *patch.Activities
	}
	if patch.Date != nil {
		if *patch.Date == "" {
			details["date"] = "date cannot be empty"
		}
		validateDate("date", *patch.Date, details)
		e.Date = *patch.Date
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	now := s.now()
	e.UpdatedAt = &now
	if err := s.entries.UpdateTracking(ctx, e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewTrackingNotFoundError()
		}
		return nil, fmt.Errorf("update tracking entry: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes an entry owned by userID.
func (s *TrackingService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID, "delete"); err != nil {
		return err
	}
	if err := s.entries.DeleteTracking(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NewTrackingNotFoundError()
		}
		return fmt.Errorf("delete tracking entry: %w", err)
	}
	return nil
}
