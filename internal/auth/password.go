package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"donorconnect/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt run.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("donorconnect-dummy-password"), passwordCost)
	if err != nil {
		panic(fmt.Errorf("failed to generate dummy hash: %w", err))
	}
	return hash
})

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type UserLookup interface {
	UserByEmail(ctx context.Context, email string) (*types.User, error)
}

type Authenticator struct {
	users UserLookup
}

func NewAuthenticator(users UserLookup) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate returns types.ErrInvalidCredentials for an unknown email and for a wrong password alike.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, types.ErrInvalidCredentials
	}

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, types.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.Password, password) {
		return nil, types.ErrInvalidCredentials
	}

	return user, nil
}
