package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peacenest/internal/auth"
	"peacenest/internal/models"
	"peacenest/internal/store"
	"peacenest/internal/store/memory"
)

func newUserService(t *testing.T) (*UserService, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return NewUserService(memory.New(), tokens), tokens
}

func TestRegister_Success(t *testing.T) {
	svc, tokens := newUserService(t)

	res, err := svc.Register(context.Background(), "  Ann@Example.COM ", "secret1", "  Ann  ")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.Name)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.JSONEq(t, `{}`, string(res.User.Preferences))
	assert.Equal(t, res.User.CreatedAt, res.User.UpdatedAt)

	payload, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, payload.UserID)
	assert.Equal(t, "ann@example.com", payload.Email)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ANN@example.com", "another1", "Ann Two")
	require.Error(t, err)
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindDuplicate, apiErr.Kind)
	assert.Equal(t, models.ErrCodeEmailExists, apiErr.Code)
}

// racingStore hides existing users from the pre-check so the insert itself
// reports the conflict.
type racingStore struct {
	*memory.Store
}

func (racingStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func TestRegister_InsertConflictIsDuplicate(t *testing.T) {
	mem := memory.New()
	svc := NewUserService(racingStore{mem}, auth.NewTokenService([]byte("k"), time.Hour))
	ctx := context.Background()

	require.NoError(t, mem.CreateUser(ctx, &models.User{ID: "u1", Email: "ann@example.com"}))

	_, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	assert.True(t, models.IsKind(err, models.KindDuplicate))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserService(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		field    string
	}{
		{"bad email", "not-an-email", "secret1", "Ann", "email"},
		{"display name email", "Ann <ann@example.com>", "secret1", "Ann", "email"},
		{"short password", "ann@example.com", "12345", "Ann", "password"},
		{"short name", "ann@example.com", "secret1", " A ", "name"},
		{"long name", "ann@example.com", "secret1", strings.Repeat("a", 101), "name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.password, tc.userName)
			apiErr, ok := models.AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, models.KindValidation, apiErr.Kind)
			assert.Contains(t, apiErr.Details, tc.field)
		})
	}
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "ann@example.com", "wrong-pass")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret1")

	a, ok := models.AsAPIError(wrongPassword)
	require.True(t, ok)
	b, ok := models.AsAPIError(unknownEmail)
	require.True(t, ok)

	assert.Equal(t, models.KindAuthentication, a.Kind)
	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestLogin_Success(t *testing.T) {
	svc, tokens := newUserService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	payload, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, payload.UserID)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.GetProfile(context.Background(), "ghost")
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeUserNotFound, apiErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	later := reg.User.CreatedAt.Add(time.Minute)
	svc.now = func() time.Time { return later }

	name := "Annie"
	avatar := "https://cdn.example.com/a.png"
	u, err := svc.UpdateProfile(ctx, reg.User.ID, ProfilePatch{
		Name:        &name,
		Avatar:      &avatar,
		Preferences: json.RawMessage(`{"theme":"dark"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	require.NotNil(t, u.Avatar)
	assert.Equal(t, avatar, *u.Avatar)
	assert.JSONEq(t, `{"theme":"dark"}`, string(u.Preferences))
	assert.Equal(t, later, u.UpdatedAt)
	assert.Equal(t, reg.User.PasswordHash, u.PasswordHash)
}

func TestUpdateProfile_RejectsBadInput(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	short := "A"
	_, err = svc.UpdateProfile(ctx, reg.User.ID, ProfilePatch{Name: &short})
	assert.True(t, models.IsKind(err, models.KindValidation))

	_, err = svc.UpdateProfile(ctx, reg.User.ID, ProfilePatch{Preferences: json.RawMessage(`[1,2]`)})
	assert.True(t, models.IsKind(err, models.KindValidation))

	_, err = svc.UpdateProfile(ctx, "ghost", ProfilePatch{})
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "ann@example.com", "secret1", "Ann")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, reg.User.ID))
	require.NoError(t, svc.DeleteAccount(ctx, reg.User.ID))

	_, err = svc.GetProfile(ctx, reg.User.ID)
	assert.True(t, models.IsKind(err, models.KindNotFound))
}
