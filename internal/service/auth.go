package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookvault/api/internal/events"
	"github.com/bookvault/api/internal/hash"
	"github.com/bookvault/api/internal/logging"
	"github.com/bookvault/api/internal/models"
	"github.com/bookvault/api/internal/repo"
	"github.com/bookvault/api/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Events *events.Producer
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// validateUser is the credential validator: exact email lookup, then
// bcrypt compare. Unknown email and wrong password are the same error;
// the caller learns nothing about which half failed.
func (s *AuthService) validateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.validateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		}
		return nil, err
	}

	access, refresh, err := s.Tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.Repo.SetRefreshDigest(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserEvent{
		Type:   events.TypeUserLoggedIn,
		UserID: user.ID,
		Email:  user.Email,
	})

	l.Info("login_successful", "user_id", user.ID)
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateIfEmailFree(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_conflict", "status", 409)
			return nil, ErrConflict
		}
		return nil, err
	}

	access, refresh, err := s.Tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.Repo.SetRefreshDigest(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserEvent{
		Type:   events.TypeUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
	})

	l.Info("register_successful", "user_id", user.ID)
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated: the stored digest stays as it
// is and the same token keeps working until logout or expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := tokens.ClaimsFromToken(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return "", ErrUnauthorized
	}

	ok, err := s.Repo.ValidateRefreshDigest(ctx, claims.Subject, refreshToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnauthorized
	}

	user, err := s.Repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	access, err := s.Tokens.IssueAccess(user)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Logout revokes the session named by the token's subject. Best
// effort: the signature is not checked, a garbled or absent token is
// ignored, and store failures are logged but not returned.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if refreshToken == "" {
		return
	}
	sub, err := tokens.SubjectUnverified(refreshToken)
	if err != nil {
		return
	}
	if err := s.Repo.ClearRefreshDigest(ctx, sub); err != nil {
		l.Error("logout_revoke_failed", "user_id", sub, "error", err)
		return
	}

	s.publish(ctx, events.UserEvent{Type: events.TypeUserLoggedOut, UserID: sub})
	l.Info("logout_successful", "user_id", sub)
}

// Me resolves the token subject back to its account row.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, ev events.UserEvent) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", ev.Type, "error", err)
	}
}
