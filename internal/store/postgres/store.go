package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// TrackingEncryptor encrypts tracking fields at rest.
type TrackingEncryptor interface {
	EncryptTracking(e *models.TrackingEntry) error
	DecryptTracking(e *models.TrackingEntry) error
}

// Store implements the store interfaces on PostgreSQL.
//
// Array columns are written and read through their text form so that
// pq.StringArray behaves the same under the pgx stdlib driver.
type Store struct {
	db  *sqlx.DB
	enc TrackingEncryptor
}

var _ store.UserStore = (*Store)(nil)
var _ store.TrackingStore = (*Store)(nil)
var _ store.ArticleStore = (*Store)(nil)
var _ store.BreathingStore = (*Store)(nil)
var _ store.MeditationStore = (*Store)(nil)
var _ store.AudioStore = (*Store)(nil)

// New returns a Store. enc may be nil to keep notes in plaintext.
func New(db *sqlx.DB, enc TrackingEncryptor) *Store {
	return &Store{db: db, enc: enc}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
