package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"peacenest/internal/auth"
	"peacenest/internal/httpx"
	"peacenest/internal/metrics"
	mw "peacenest/internal/middleware"
	"peacenest/internal/models"
	"peacenest/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything the router wires together. Metrics, Gatherer,
// LoginLimiter and DB are optional.
type Deps struct {
	Logger         *zap.Logger
	Development    bool
	AllowedOrigins []string

	Tokens      *auth.TokenService
	Users       *services.UserService
	Tracking    *services.TrackingService
	Articles    *services.ArticleService
	Breathing   *services.BreathingService
	Meditations *services.MeditationService
	Audios      *services.AudioService
	Offline     *services.OfflineService

	Metrics      *metrics.Collector
	Gatherer     prometheus.Gatherer
	LoginLimiter *mw.RateLimiter
	DB           Pinger
}

func NewRouter(d Deps) http.Handler {
	ew := errorWriter{logger: d.Logger, withStack: d.Development}
	authMW := mw.NewAuthMiddleware(d.Tokens)

	authHandler := NewAuthHandler(d.Users, d.Metrics, ew)
	userHandler := NewUserHandler(d.Users, ew)
	trackingHandler := NewTrackingHandler(d.Tracking, d.Metrics, ew)
	articleHandler := NewArticleHandler(d.Articles, ew)
	breathingHandler := NewBreathingHandler(d.Breathing, ew)
	meditationHandler := NewMeditationHandler(d.Meditations, ew)
	audioHandler := NewAudioHandler(d.Audios, ew)
	offlineHandler := NewOfflineHandler(d.Offline, d.Meditations, d.Breathing, d.Audios, d.Articles, ew)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.ZapRequestLogger(d.Logger))
	r.Use(mw.Recoverer(d.Logger, d.Development))
	r.Use(d.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, models.ErrCodeNotFound, "route not found - "+r.URL.Path, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"message": "PeaceNest API",
			"health":  "/health",
			"api":     "/api",
		})
	})
	r.Get("/health", health(d.DB))
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(u chi.Router) {
			u.Post("/register", authHandler.Register)
			u.Group(func(g chi.Router) {
				if d.LoginLimiter != nil {
					g.Use(d.LoginLimiter.Middleware)
				}
				g.Post("/login", authHandler.Login)
			})
			u.Group(func(g chi.Router) {
				g.Use(authMW.RequireAuth)
				g.Get("/profile", userHandler.GetProfile)
				g.Put("/profile", userHandler.UpdateProfile)
				g.Delete("/profile", userHandler.DeleteProfile)
			})
		})

		api.Route("/tracking", func(t chi.Router) {
			t.Use(authMW.RequireAuth)
			t.Post("/", trackingHandler.Create)
			t.Get("/", trackingHandler.List)
			t.Get("/stats", trackingHandler.Stats)
			t.Get("/{id}", trackingHandler.Get)
			t.Put("/{id}", trackingHandler.Update)
			t.Delete("/{id}", trackingHandler.Delete)
		})

		api.Route("/articles", func(a chi.Router) {
			a.With(authMW.OptionalAuth).Get("/", articleHandler.List)
			a.Get("/search", articleHandler.Search)
			a.Get("/category/{category}", articleHandler.ListByCategory)
			a.Get("/{id}", articleHandler.Get)
			a.Group(func(g chi.Router) {
				g.Use(authMW.RequireAuth)
				g.Post("/", articleHandler.Create)
				g.Put("/{id}", articleHandler.Update)
				g.Delete("/{id}", articleHandler.Delete)
			})
		})

		api.Route("/breathing", func(b chi.Router) {
			b.With(authMW.OptionalAuth).Get("/", breathingHandler.ListExercises)
			b.Group(func(g chi.Router) {
				g.Use(authMW.RequireAuth)
				g.Post("/", breathingHandler.CreateExercise)
				g.Post("/progress", breathingHandler.SaveProgress)
				g.Get("/progress", breathingHandler.ListProgress)
			})
			b.Get("/{id}", breathingHandler.GetExercise)
		})

		api.Route("/meditations", func(m chi.Router) {
			m.With(authMW.OptionalAuth).Get("/", meditationHandler.List)
			m.Get("/category/{category}", meditationHandler.ListByCategory)
			m.Get("/{id}", meditationHandler.Get)
			m.Group(func(g chi.Router) {
				g.Use(authMW.RequireAuth)
				g.Post("/", meditationHandler.Create)
				g.Put("/{id}", meditationHandler.Update)
				g.Delete("/{id}", meditationHandler.Delete)
			})
		})

		api.Route("/audios", func(a chi.Router) {
			a.With(authMW.OptionalAuth).Get("/", audioHandler.List)
			a.Get("/categories", audioHandler.Categories)
			a.Get("/category/{category}", audioHandler.ListByCategory)
			a.Get("/{id}", audioHandler.Get)
			a.Group(func(g chi.Router) {
				g.Use(authMW.RequireAuth)
				g.Post("/", audioHandler.Create)
				g.Put("/{id}", audioHandler.Update)
				g.Delete("/{id}", audioHandler.Delete)
			})
		})

		api.Route("/offline", func(o chi.Router) {
			o.Use(authMW.OptionalAuth)
			o.Get("/resources", offlineHandler.Resources)
			o.Get("/meditations", offlineHandler.Meditations)
			o.Get("/breathing", offlineHandler.Breathing)
			o.Get("/audios", offlineHandler.Audios)
			o.Get("/articles", offlineHandler.Articles)
			o.Get("/check-updates", offlineHandler.CheckUpdates)
		})
	})

	return r
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				body["status"] = "unavailable"
				httpx.JSON(w, http.StatusServiceUnavailable, body)
				return
			}
		}
		httpx.JSON(w, http.StatusOK, body)
	}
}
