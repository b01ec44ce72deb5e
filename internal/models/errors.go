package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an APIError and decides its HTTP status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindDuplicate
	KindAuthentication
	KindAuthorization
	KindNotFound
)

func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// APIError is an error meant to reach the client as {error, code}.
type APIError struct {
	Kind    ErrorKind
	Code    string
	Message string
	// Details holds per-field validation messages.
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNoToken            = "NO_TOKEN"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeTrackingNotFound   = "TRACKING_NOT_FOUND"
	ErrCodeArticleNotFound    = "ARTICLE_NOT_FOUND"
	ErrCodeExerciseNotFound   = "EXERCISE_NOT_FOUND"
	ErrCodeMeditationNotFound = "MEDITATION_NOT_FOUND"
	ErrCodeAudioNotFound      = "AUDIO_NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

func NewValidationError(details map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Code:    ErrCodeValidation,
		Message: "validation error",
		Details: details,
	}
}

func NewDuplicateEmailError() *APIError {
	return &APIError{Kind: KindDuplicate, Code: ErrCodeEmailExists, Message: "email is already registered"}
}

// NewInvalidCredentialsError is shared by the unknown-email and wrong-password
// paths so the response never reveals which one happened.
func NewInvalidCredentialsError() *APIError {
	return &APIError{Kind: KindAuthentication, Code: ErrCodeInvalidCredentials, Message: "invalid credentials"}
}

func NewNoTokenError() *APIError {
	return &APIError{Kind: KindAuthentication, Code: ErrCodeNoToken, Message: "access denied: no authentication token provided"}
}

func NewInvalidTokenError() *APIError {
	return &APIError{Kind: KindAuthorization, Code: ErrCodeInvalidToken, Message: "invalid or expired token"}
}

func NewForbiddenError(msg string) *APIError {
	return &APIError{Kind: KindAuthorization, Code: ErrCodeForbidden, Message: msg}
}

func NewNotFoundError(code, msg string) *APIError {
	return &APIError{Kind: KindNotFound, Code: code, Message: msg}
}

func NewUserNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeUserNotFound, "user not found")
}

func NewTrackingNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeTrackingNotFound, "tracking entry not found")
}

func NewArticleNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeArticleNotFound, "article not found")
}

func NewExerciseNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeExerciseNotFound, "exercise not found")
}

func NewMeditationNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeMeditationNotFound, "meditation not found")
}

func NewAudioNotFoundError() *APIError {
	return NewNotFoundError(ErrCodeAudioNotFound, "audio not found")
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}
