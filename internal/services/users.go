package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"peacenest/internal/auth"
	"peacenest/internal/models"
	"peacenest/internal/store"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 100
)

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	User  *models.User
	Token string
}

// ProfilePatch carries the fields a user may change on their own profile.
// Email, password and id are not part of it and so can never be patched.
type ProfilePatch struct {
	Name        *string
	Avatar      *string
	Preferences json.RawMessage
}

type UserService struct {
	users  store.UserStore
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	now    func() time.Time
}

// NewUserService creates a UserService that signs tokens with tokens.
func NewUserService(users store.UserStore, tokens *auth.TokenService) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		hasher: auth.NewPasswordHasher(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validateName(name string, details map[string]string) {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		details["name"] = fmt.Sprintf("name must be between %d and %d characters", minNameLen, maxNameLen)
	}
}

// Register creates an account and returns it with a fresh token.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	details := map[string]string{}
	if !validEmail(email) {
		details["email"] = "a valid email is required"
	}
	if len(password) < minPasswordLen {
		details["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}
	validateName(name, details)
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.NewDuplicateEmailError()
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Preferences:  types.JSONText("{}"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(u)
}

// Login fails with the same error whether the email is unknown or the
// password is wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	details := map[string]string{}
	if !validEmail(email) {
		details["email"] = "a valid email is required"
	}
	if password == "" {
		details["password"] = "password is required"
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, models.NewInvalidCredentialsError()
	}

	return s.issue(u)
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Payload{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

// GetProfile returns USER_NOT_FOUND once the account is gone.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies patch to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		validateName(name, details)
		u.Name = name
	}
	if patch.Avatar != nil {
		u.Avatar = patch.Avatar
	}
	if len(patch.Preferences) > 0 {
		var obj map[string]interface{}
		if err := json.Unmarshal(patch.Preferences, &obj); err != nil || obj == nil {
			details["preferences"] = "preferences must be a JSON object"
		} else {
			u.Preferences = types.JSONText(patch.Preferences)
		}
	}
	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	u.UpdatedAt = s.now()
	if err := s.users.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// DeleteAccount succeeds whether or not the account still exists.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// requireUser reports USER_NOT_FOUND when id no longer names an account.
// Tokens outlive deleted accounts, so writes keyed by the caller check this.
func requireUser(ctx context.Context, users store.UserStore, id string) error {
	if _, err := users.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NewUserNotFoundError()
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}
