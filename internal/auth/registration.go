package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

// User-facing registration messages.
const (
	MsgEmailExists      = "Email already exists."
	MsgUsernameTaken    = "Username already taken."
	MsgEmailTooShort    = "Email must be at least 4 characters."
	MsgUsernameTooShort = "Username must be at least 2 characters."
	MsgPasswordMismatch = "Passwords do not match."
	MsgPasswordTooShort = "Password must be at least 7 characters."
	MsgEmailTooLong     = "Email must be at most 150 characters."
	MsgUsernameTooLong  = "Username must be at most 150 characters."
	MsgPasswordTooLong  = "Password must be at most 72 bytes."
)

const (
	minEmailLength    = 4
	minUsernameLength = 2
	minPasswordLength = 7
	maxIdentityLength = 150
)

// ValidationError rejects user input with a message fit for display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Registration is a sign-up request.
type Registration struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// ValidateRegistration applies the sign-up rules in order and returns a
// *ValidationError for the first one that fails. Other errors come from
// the store.
func ValidateRegistration(ctx context.Context, q sqlx.ExtContext, reg Registration) error {
	taken, err := exists(database.GetUserByEmail(ctx, q, reg.Email))
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{MsgEmailExists}
	}
	taken, err = exists(database.GetUserByUsername(ctx, q, reg.Username))
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{MsgUsernameTaken}
	}

	switch {
	case utf8.RuneCountInString(reg.Email) < minEmailLength:
		return &ValidationError{MsgEmailTooShort}
	case utf8.RuneCountInString(reg.Username) < minUsernameLength:
		return &ValidationError{MsgUsernameTooShort}
	case reg.Password != reg.Confirm:
		return &ValidationError{MsgPasswordMismatch}
	case utf8.RuneCountInString(reg.Password) < minPasswordLength:
		return &ValidationError{MsgPasswordTooShort}
	case utf8.RuneCountInString(reg.Email) > maxIdentityLength:
		return &ValidationError{MsgEmailTooLong}
	case utf8.RuneCountInString(reg.Username) > maxIdentityLength:
		return &ValidationError{MsgUsernameTooLong}
	}
	return nil
}

// Register validates reg, hashes the password and creates the account.
func Register(ctx context.Context, q sqlx.ExtContext, hasher PasswordHasher, reg Registration) (*models.User, error) {
	if err := ValidateRegistration(ctx, q, reg); err != nil {
		return nil, err
	}
	return createAccount(ctx, q, hasher, reg)
}

// createAccount inserts an already validated registration. A uniqueness
// race lost at insert time is reported like the matching validation
// failure.
func createAccount(ctx context.Context, q sqlx.ExtContext, hasher PasswordHasher, reg Registration) (*models.User, error) {
	hash, err := hasher.Hash(reg.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{MsgPasswordTooLong}
	}
	if err != nil {
		return nil, err
	}
	user, err := database.CreateUser(ctx, q, reg.Username, reg.Email, hash)
	switch {
	case errors.Is(err, database.ErrDuplicateEmail):
		return nil, &ValidationError{MsgEmailExists}
	case errors.Is(err, database.ErrDuplicateUsername):
		return nil, &ValidationError{MsgUsernameTaken}
	case err != nil:
		return nil, fmt.Errorf("register %q: %w", reg.Username, err)
	}
	return user, nil
}

func exists(_ *models.User, err error) (bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
