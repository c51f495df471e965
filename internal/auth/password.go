package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already exists")
)

var usernameRegex = regexp.MustCompile(`^[\p{L}0-9@.+\-_]{1,150}$`)

// MinPasswordLength is the shortest accepted password, in characters
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// InputError describes rejected signup input; it matches ErrInvalidInput
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidInput) hold
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ValidateCredentials checks signup input
func ValidateCredentials(username, password string) error {
	if !usernameRegex.MatchString(username) {
		return &InputError{Message: "Username must be 1-150 letters, digits or @.+-_"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &InputError{Message: fmt.Sprintf("Password must contain at least %d characters", MinPasswordLength)}
	}
	if len(password) > MaxPasswordBytes {
		return &InputError{Message: fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes)}
	}
	return nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
