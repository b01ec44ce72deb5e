package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peacenest/internal/models"
	"peacenest/internal/store"
)

// prefixEncryptor marks notes instead of encrypting them.
type prefixEncryptor struct{}

func (prefixEncryptor) EncryptTracking(e *models.TrackingEntry) error {
	if e.Notes != nil {
		v := "enc:" + *e.Notes
		e.Notes = &v
	}
	return nil
}

func (prefixEncryptor) DecryptTracking(e *models.TrackingEntry) error {
	if e.Notes != nil {
		v := strings.TrimPrefix(*e.Notes, "enc:")
		e.Notes = &v
	}
	return nil
}

func newStoreWithMock(t *testing.T, enc TrackingEncryptor) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	return New(sqlx.NewDb(mockDB, "pgx"), enc), mock
}

var trackingCols = []string{"id", "user_id", "mood", "notes", "activities", "date", "created_at", "updated_at"}

func TestCreateUser_UniqueViolationIsDuplicate(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@example.com", Preferences: types.JSONText("{}")})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateUser_OtherErrorIsWrapped(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("db down"))

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@example.com", Preferences: types.JSONText("{}")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "db down")
}

func TestGetUserByEmail(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "avatar", "preferences", "created_at", "updated_at"}).
		AddRow("u1", "a@example.com", "Ann", "hash", nil, []byte(`{"theme":"dark"}`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(rows)

	u, err := s.GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Nil(t, u.Avatar)
	assert.JSONEq(t, `{"theme":"dark"}`, string(u.Preferences))
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUser_NoRowsIsNotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateUser(context.Background(), &models.User{ID: "ghost", Preferences: types.JSONText("{}")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUser_Idempotent(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteUser(context.Background(), "ghost"))
}

func TestCreateTracking_EncryptsNotesWithoutTouchingCaller(t *testing.T) {
	s, mock := newStoreWithMock(t, prefixEncryptor{})
	now := time.Now().UTC()
	notes := "slept well"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracking_entries")).
		WithArgs("t1", "u1", "good", "enc:slept well", sqlmock.AnyArg(), "2026-01-05", now, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.TrackingEntry{
		ID: "t1", UserID: "u1", Mood: models.MoodGood, Notes: &notes,
		Activities: []string{"walk"}, Date: "2026-01-05", CreatedAt: now,
	}
	require.NoError(t, s.CreateTracking(context.Background(), e))
	assert.Equal(t, "slept well", *e.Notes)
}

func TestGetTracking_DecryptsAndScansArrays(t *testing.T) {
	s, mock := newStoreWithMock(t, prefixEncryptor{})
	now := time.Now().UTC()

	rows := sqlmock.NewRows(trackingCols).
		AddRow("t1", "u1", "bad", "enc:tired", "{work,gym}", "2026-01-05", now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tracking_entries WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(rows)

	e, err := s.GetTracking(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.MoodBad, e.Mood)
	require.NotNil(t, e.Notes)
	assert.Equal(t, "tired", *e.Notes)
	assert.Equal(t, []string{"work", "gym"}, []string(e.Activities))
	assert.Nil(t, e.UpdatedAt)
}

func TestFindTracking_BuildsBoundsWithoutOrdering(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)
	now := time.Now().UTC()

	q := regexp.QuoteMeta("FROM tracking_entries WHERE user_id = $1 AND date >= $2 AND date <= $3 LIMIT $4") + "$"
	rows := sqlmock.NewRows(trackingCols).
		AddRow("t2", "u1", "good", nil, nil, "2026-01-02", now, nil).
		AddRow("t1", "u1", "neutral", nil, nil, "2026-01-05", now, nil)
	mock.ExpectQuery(q).
		WithArgs("u1", "2026-01-01", "2026-01-31", 30).
		WillReturnRows(rows)

	out, err := s.FindTracking(context.Background(), store.TrackingQuery{
		UserID: "u1", StartDate: "2026-01-01", EndDate: "2026-01-31", Limit: 30,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t2", out[0].ID)
	assert.Nil(t, out[0].Activities)
}

func TestFindTracking_NoFiltersReturnsEmptySlice(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tracking_entries WHERE user_id = $1") + "$").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(trackingCols))

	out, err := s.FindTracking(context.Background(), store.TrackingQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDeleteTracking_NoRowsIsNotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracking_entries WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteTracking(context.Background(), "t1"), store.ErrNotFound)
}

func TestListArticles_CategoryFilter(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "title", "content", "summary", "category", "author", "image_url", "read_time", "tags", "published_at", "created_at", "updated_at"}).
		AddRow("a1", "Sleep better", "...", nil, "sleep", nil, nil, 5, "{rest}", now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM articles WHERE category = $1 ORDER BY published_at DESC")).
		WithArgs("sleep").
		WillReturnRows(rows)

	out, err := s.ListArticles(context.Background(), "sleep")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].ReadTime)
	assert.Equal(t, 5, *out[0].ReadTime)
	assert.Equal(t, []string{"rest"}, []string(out[0].Tags))
}

func TestCreateExercise_NamedInsert(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO breathing_exercises")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.CreateExercise(context.Background(), &models.BreathingExercise{ID: "e1", Name: "Box", Duration: 240})
	assert.NoError(t, err)
}

func TestListProgress_Limit(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "user_id", "exercise_id", "completed", "duration", "completed_at"}).
		AddRow("p1", "u1", "e1", true, 120, now)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY completed_at DESC LIMIT $2")).
		WithArgs("u1", 10).
		WillReturnRows(rows)

	out, err := s.ListProgress(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Completed)
}

func TestCreateTracking_ForeignKeyViolationIsMissingReference(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracking_entries")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})

	err := s.CreateTracking(context.Background(), &models.TrackingEntry{ID: "t1", UserID: "gone", Mood: models.MoodGood})
	assert.ErrorIs(t, err, store.ErrMissingReference)
}

func TestCreateProgress_ForeignKeyViolationIsMissingReference(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO breathing_progress")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})

	err := s.CreateProgress(context.Background(), &models.BreathingProgress{ID: "p1", UserID: "gone", ExerciseID: "e1"})
	assert.ErrorIs(t, err, store.ErrMissingReference)
}

func TestListMeditations_BothFilters(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "duration", "level", "audio_url", "image_url", "benefits", "created_at", "updated_at"}).
		AddRow("m1", "Wind down", nil, "sleep", 10, nil, nil, nil, "{calm,rest}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM meditations WHERE 1=1 AND category = $1 AND duration <= $2 ORDER BY created_at DESC, id")).
		WithArgs("sleep", 15).
		WillReturnRows(rows)

	out, err := s.ListMeditations(context.Background(), store.MeditationFilter{Category: "sleep", MaxDuration: 15})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].Duration)
	assert.Equal(t, []string{"calm", "rest"}, []string(out[0].Benefits))
}

func TestGetMeditation_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM meditations WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetMeditation(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAudio_NamedInsert(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audios")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.CreateAudio(context.Background(), &models.Audio{ID: "a1", Title: "Rain"})
	assert.NoError(t, err)
}

func TestAudioCategories_Distinct(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT category FROM audios")).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("focus").AddRow("sleep"))

	cats, err := s.AudioCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"focus", "sleep"}, cats)
}

func TestUpdateAudio_NoRowsIsNotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, nil)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE audios")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.UpdateAudio(context.Background(), &models.Audio{ID: "a1"}), store.ErrNotFound)
}
