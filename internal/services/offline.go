package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

// OfflineVersion stamps the offline bundle so clients know when to refetch.
const OfflineVersion = "1.0.0"

// Per-item download estimates in MB.
const (
	meditationSizeMB = 5
	audioSizeMB      = 3
	exerciseSizeMB   = 0.1
	articleSizeMB    = 0.5
)

type EstimatedSize struct {
	Meditations float64 `json:"meditations"`
	Audios      float64 `json:"audios"`
	Exercises   float64 `json:"exercises"`
	Articles    float64 `json:"articles"`
	Total       float64 `json:"total"`
	Unit        string  `json:"unit"`
}

// Catalog is one resource list in the offline bundle.
type Catalog[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

type OfflineCatalogs struct {
	Meditations        Catalog[models.Meditation]        `json:"meditations"`
	BreathingExercises Catalog[models.BreathingExercise] `json:"breathingExercises"`
	Audios             Catalog[models.Audio]             `json:"audios"`
	Articles           Catalog[models.Article]           `json:"articles"`
}

// OfflineBundle is everything a client downloads to work without a network.
type OfflineBundle struct {
	Version       string          `json:"version"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	EstimatedSize EstimatedSize   `json:"estimatedSize"`
	Resources     OfflineCatalogs `json:"resources"`
}

type UpdateStatus struct {
	CurrentVersion  string    `json:"currentVersion"`
	ClientVersion   string    `json:"clientVersion"`
	UpdateAvailable bool      `json:"updateAvailable"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// OfflineService assembles the downloadable content bundle.
type OfflineService struct {
	meditations store.MeditationStore
	breathing   store.BreathingStore
	audios      store.AudioStore
	articles    store.ArticleStore
	now         func() time.Time
}

// NewOfflineService creates an OfflineService reading from the catalog stores.
func NewOfflineService(meditations store.MeditationStore, breathing store.BreathingStore, audios store.AudioStore, articles store.ArticleStore) *OfflineService {
	return &OfflineService{
		meditations: meditations,
		breathing:   breathing,
		audios:      audios,
		articles:    articles,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Bundle loads the four catalogs concurrently. Any failure fails the bundle.
func (s *OfflineService) Bundle(ctx context.Context) (*OfflineBundle, error) {
	var (
		meditations []models.Meditation
		exercises   []models.BreathingExercise
		audios      []models.Audio
		articles    []models.Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meditations, err = s.meditations.ListMeditations(gctx, store.MeditationFilter{})
		return err
	})
	g.Go(func() (err error) {
		exercises, err = s.breathing.ListExercises(gctx)
		return err
	})
	g.Go(func() (err error) {
		audios, err = s.audios.ListAudios(gctx, store.AudioFilter{})
		return err
	})
	g.Go(func() (err error) {
		articles, err = s.articles.ListArticles(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load offline resources: %w", err)
	}

	return &OfflineBundle{
		Version:       OfflineVersion,
		LastUpdated:   s.now(),
		EstimatedSize: estimateSize(len(meditations), len(exercises), len(audios), len(articles)),
		Resources: OfflineCatalogs{
			Meditations:        newCatalog(meditations),
			BreathingExercises: newCatalog(exercises),
			Audios:             newCatalog(audios),
			Articles:           newCatalog(articles),
		},
	}, nil
}

// CheckUpdates compares the client's bundle version with the current one.
// An empty version always needs an update.
func (s *OfflineService) CheckUpdates(clientVersion string) UpdateStatus {
	st := UpdateStatus{
		CurrentVersion:  OfflineVersion,
		ClientVersion:   clientVersion,
		UpdateAvailable: clientVersion != OfflineVersion,
		LastUpdated:     s.now(),
	}
	if st.ClientVersion == "" {
		st.ClientVersion = "unknown"
	}
	return st
}

func newCatalog[T any](items []T) Catalog[T] {
	if items == nil {
		items = []T{}
	}
	return Catalog[T]{Count: len(items), Items: items}
}

func estimateSize(meditations, exercises, audios, articles int) EstimatedSize {
	es := EstimatedSize{
		Meditations: roundMB(float64(meditations) * meditationSizeMB),
		Audios:      roundMB(float64(audios) * audioSizeMB),
		Exercises:   roundMB(float64(exercises) * exerciseSizeMB),
		Articles:    roundMB(float64(articles) * articleSizeMB),
		Unit:        "MB",
	}
	es.Total = roundMB(es.Meditations + es.Audios + es.Exercises + es.Articles)
	return es
}

func roundMB(v float64) float64 {
	return math.Round(v*100) / 100
}
