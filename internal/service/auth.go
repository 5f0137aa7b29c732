// Package service orchestrates domain operations over the store, catalog,
// and search index.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagemarkapp/pagemark-server/internal/auth"
	"github.com/pagemarkapp/pagemark-server/internal/domain"
	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
	"github.com/pagemarkapp/pagemark-server/internal/id"
	"github.com/pagemarkapp/pagemark-server/internal/store"
)

// TokenPair is the credential set handed to a client at login, register,
// and refresh.
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// AuthService handles registration, login, and refresh-token sessions.
type AuthService struct {
	store   store.Store
	tokens  *auth.TokenService
	shelves *ShelfService
	logger  *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st store.Store, tokens *auth.TokenService, shelves *ShelfService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:   st,
		tokens:  tokens,
		shelves: shelves,
		logger:  logger,
	}
}

// Register creates a new account, provisions its default shelf, and logs
// the user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, *TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, domainerrors.Validation(err.Error())
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		ID:           userID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	// Every account gets the protected default shelf, created in the same
	// transaction as the user row so neither exists without the other.
	shelf, err := s.shelves.DefaultShelfFor(userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.CreateUserWithShelf(ctx, user, shelf); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, nil, domainerrors.Conflict("username or email already registered")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered",
		"user_id", userID,
		"username", username,
	)

	return user, pair, nil
}

// Login verifies credentials and opens a new refresh-token session.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	pair, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return user, pair, nil
}

// Refresh rotates a refresh-token session: the old session is deleted and
// a new one issued atomically from the caller's perspective.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		// Lazy cleanup; a background sweep also prunes these.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, domainerrors.ErrTokenExpired
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return s.createSession(ctx, user)
}

// Logout revokes the session holding the given refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("user logged out", "user_id", session.UserID)
	return nil
}

// VerifyAccessToken validates an access token and loads its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid or expired token")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// CleanupExpiredSessions removes sessions past their expiry.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired sessions cleaned up", "count", n)
	}
	return nil
}

// createSession issues a token pair and records the refresh session.
func (s *AuthService) createSession(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.tokens.AccessTokenDuration()),
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}
