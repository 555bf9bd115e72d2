// Package service implements application use cases over the repository
// and cache layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/cache"
	"github.com/marigunko/my-recipe-book/internal/model"
	"github.com/marigunko/my-recipe-book/internal/repository"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 6

// Common errors for auth operations. Validation errors are field-scoped
// and never reach the database; credential errors are deliberately
// indistinguishable between unknown email and wrong password.
var (
	ErrEmailInvalid       = errors.New("enter a valid email")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	repo       *repository.Repository
	cache      *cache.Cache
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, cacheClient *cache.Cache, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		cache:      cacheClient,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) validateCredentials(email, password string) error {
	if email == "" {
		return ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrEmailInvalid
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Register creates a new account and returns the stored user.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartSession creates a server-side session for the user and returns
// the plaintext token destined for the browser cookie.
func (s *AuthService) StartSession(ctx context.Context, user *model.User) (string, *model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	sess := &model.Session{
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.cache.SetSession(ctx, auth.QuickHash(token), sess); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, sess, nil
}

// ResolveSession looks up the session for a cookie token. The second
// return value reports whether the session expiry was slid forward, in
// which case the caller must re-issue the cookie with the new expiry.
// A missing or expired session returns (nil, false, nil).
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.Session, bool, error) {
	if token == "" {
		return nil, false, nil
	}

	tokenHash := auth.QuickHash(token)

	sess, err := s.cache.GetSession(ctx, tokenHash)
	if err != nil || sess == nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if sess.Expired(now) {
		_ = s.cache.DeleteSession(ctx, tokenHash)
		return nil, false, nil
	}

	if sess.ShouldRefresh(now) {
		refreshed, err := s.cache.RefreshSession(ctx, tokenHash, sess, s.sessionTTL)
		if err == nil {
			return refreshed, true, nil
		}
		// Refresh failure is not fatal; the session is still valid.
	}

	return sess, false, nil
}

// EndSession destroys the session for a cookie token. Used on logout.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.DeleteSession(ctx, auth.QuickHash(token))
}
