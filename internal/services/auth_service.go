package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tickoff/internal/domain"
	"tickoff/internal/repos"
	"tickoff/internal/token"
	"tickoff/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
}

type AuthService struct {
	Users  UserStore
	Tokens *token.Issuer

	cost int
	// compared against when the email is unknown so both failure paths pay
	// for one bcrypt comparison at the same cost.
	dummyHash []byte
}

func NewAuthService(users UserStore, tokens *token.Issuer, cost int) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("tickoff-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("derive dummy hash: %w", err)
	}
	return &AuthService{Users: users, Tokens: tokens, cost: cost, dummyHash: dummy}, nil
}

// Register creates an account. The email is normalised before it is stored.
func (s *AuthService) Register(ctx context.Context, in domain.Credentials) (*domain.User, error) {
	in.Email = validate.Email(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, invalid("%s", err.Error())
	}
	// the max tag counts runes; bcrypt's limit is in bytes.
	if len(in.Password) > maxPasswordBytes {
		return nil, invalid("password must be at most %d bytes", maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{ID: id.String(), Email: in.Email, Hash: string(hash), CreatedAt: now, UpdatedAt: now}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user whose credentials match, or ErrBadCreds.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = validate.Email(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	u, err := s.Users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrBadCreds
	case err != nil:
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	return s.Tokens.Issue(u.ID)
}

// ResolveToken maps a bearer token back to a live user.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (*domain.User, error) {
	sub, err := s.Tokens.Subject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u, err := s.Users.ByID(ctx, sub)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return nil, err
	}
	return u, nil
}
