package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

// Store is an in-memory implementation of the store interfaces. It is safe
// for concurrent use and is intended for tests and local development.
// Tracking entries are returned in insertion order.
type Store struct {
	mu sync.RWMutex

	users       map[string]models.User
	trackings   map[string]models.TrackingEntry
	trackingSeq []string
	articles    map[string]models.Article
	exercises   map[string]models.BreathingExercise
	progress    []models.BreathingProgress
	meditations map[string]models.Meditation
	audios      map[string]models.Audio
}

var _ store.UserStore = (*Store)(nil)
var _ store.TrackingStore = (*Store)(nil)
var _ store.ArticleStore = (*Store)(nil)
var _ store.BreathingStore = (*Store)(nil)
var _ store.MeditationStore = (*Store)(nil)
var _ store.AudioStore = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       make(map[string]models.User),
		trackings:   make(map[string]models.TrackingEntry),
		articles:    make(map[string]models.Article),
		exercises:   make(map[string]models.BreathingExercise),
		meditations: make(map[string]models.Meditation),
		audios:      make(map[string]models.Audio),
	}
}

// Users ----------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	if _, ok := s.users[u.ID]; ok {
		return store.ErrDuplicate
	}
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)

	// mirror ON DELETE CASCADE
	kept := s.trackingSeq[:0]
	for _, tid := range s.trackingSeq {
		if s.trackings[tid].UserID == id {
			delete(s.trackings, tid)
			continue
		}
		kept = append(kept, tid)
	}
	s.trackingSeq = kept

	progress := s.progress[:0]
	for _, p := range s.progress {
		if p.UserID != id {
			progress = append(progress, p)
		}
	}
	s.progress = progress
	return nil
}

// Tracking -------------------------------------------------------------------

func (s *Store) CreateTracking(_ context.Context, e *models.TrackingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trackings[e.ID]; ok {
		return store.ErrDuplicate
	}
	s.trackings[e.ID] = cloneTracking(*e)
	s.trackingSeq = append(s.trackingSeq, e.ID)
	return nil
}

func (s *Store) GetTracking(_ context.Context, id string) (*models.TrackingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.trackings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneTracking(e)
	return &out, nil
}

func (s *Store) FindTracking(_ context.Context, q store.TrackingQuery) ([]models.TrackingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.TrackingEntry{}
	for _, id := range s.trackingSeq {
		e := s.trackings[id]
		if e.UserID != q.UserID {
			continue
		}
		if q.StartDate != "" && e.Date < q.StartDate {
			continue
		}
		if q.EndDate != "" && e.Date > q.EndDate {
			continue
		}
		out = append(out, cloneTracking(e))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) UpdateTracking(_ context.Context, e *models.TrackingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trackings[e.ID]; !ok {
		return store.ErrNotFound
	}
	s.trackings[e.ID] = cloneTracking(*e)
	return nil
}

func (s *Store) DeleteTracking(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trackings[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.trackings, id)
	for i, tid := range s.trackingSeq {
		if tid == id {
			s.trackingSeq = append(s.trackingSeq[:i], s.trackingSeq[i+1:]...)
			break
		}
	}
	return nil
}

// Articles -------------------------------------------------------------------

func (s *Store) CreateArticle(_ context.Context, a *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[a.ID]; ok {
		return store.ErrDuplicate
	}
	s.articles[a.ID] = cloneArticle(*a)
	return nil
}

func (s *Store) GetArticle(_ context.Context, id string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneArticle(a)
	return &out, nil
}

func (s *Store) ListArticles(_ context.Context, category string) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Article{}
	for _, a := range s.articles {
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, cloneArticle(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}

func (s *Store) UpdateArticle(_ context.Context, a *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[a.ID]; !ok {
		return store.ErrNotFound
	}
	s.articles[a.ID] = cloneArticle(*a)
	return nil
}

func (s *Store) DeleteArticle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.articles, id)
	return nil
}

// Breathing ------------------------------------------------------------------

func (s *Store) CreateExercise(_ context.Context, e *models.BreathingExercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exercises[e.ID]; ok {
		return store.ErrDuplicate
	}
	s.exercises[e.ID] = *e
	return nil
}

func (s *Store) GetExercise(_ context.Context, id string) (*models.BreathingExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exercises[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListExercises(_ context.Context) ([]models.BreathingExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BreathingExercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Duration == out[j].Duration {
			return out[i].ID < out[j].ID
		}
		return out[i].Duration < out[j].Duration
	})
	return out, nil
}

func (s *Store) CreateProgress(_ context.Context, p *models.BreathingProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = append(s.progress, *p)
	return nil
}

func (s *Store) ListProgress(_ context.Context, userID string, limit int) ([]models.BreathingProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.BreathingProgress{}
	for _, p := range s.progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Meditations ----------------------------------------------------------------

func (s *Store) CreateMeditation(_ context.Context, m *models.Meditation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meditations[m.ID]; ok {
		return store.ErrDuplicate
	}
	s.meditations[m.ID] = cloneMeditation(*m)
	return nil
}

func (s *Store) GetMeditation(_ context.Context, id string) (*models.Meditation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meditations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneMeditation(m)
	return &out, nil
}

func (s *Store) ListMeditations(_ context.Context, f store.MeditationFilter) ([]models.Meditation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Meditation{}
	for _, m := range s.meditations {
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		if f.MaxDuration > 0 && m.Duration > f.MaxDuration {
			continue
		}
		out = append(out, cloneMeditation(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateMeditation(_ context.Context, m *models.Meditation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meditations[m.ID]; !ok {
		return store.ErrNotFound
	}
	s.meditations[m.ID] = cloneMeditation(*m)
	return nil
}

func (s *Store) DeleteMeditation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.meditations, id)
	return nil
}

// Audios ---------------------------------------------------------------------

func (s *Store) CreateAudio(_ context.Context, a *models.Audio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.audios[a.ID]; ok {
		return store.ErrDuplicate
	}
	s.audios[a.ID] = *a
	return nil
}

func (s *Store) GetAudio(_ context.Context, id string) (*models.Audio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.audios[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListAudios(_ context.Context, f store.AudioFilter) ([]models.Audio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Audio{}
	for _, a := range s.audios {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title == out[j].Title {
			return out[i].ID < out[j].ID
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *Store) AudioCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	out := []string{}
	for _, a := range s.audios {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) UpdateAudio(_ context.Context, a *models.Audio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.audios[a.ID]; !ok {
		return store.ErrNotFound
	}
	s.audios[a.ID] = *a
	return nil
}

func (s *Store) DeleteAudio(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.audios, id)
	return nil
}

// helpers --------------------------------------------------------------------

func cloneUser(u models.User) models.User {
	if u.Preferences != nil {
		u.Preferences = append(u.Preferences[:0:0], u.Preferences...)
	}
	return u
}

func cloneTracking(e models.TrackingEntry) models.TrackingEntry {
	if e.Activities != nil {
		e.Activities = append(e.Activities[:0:0], e.Activities...)
	}
	return e
}

func cloneArticle(a models.Article) models.Article {
	if a.Tags != nil {
		a.Tags = append(a.Tags[:0:0], a.Tags...)
	}
	return a
}

func cloneMeditation(m models.Meditation) models.Meditation {
	if m.Benefits != nil {
		m.Benefits = append(m.Benefits[:0:0], m.Benefits...)
	}
	return m
}
