package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookvault/api/internal/hash"
	"github.com/bookvault/api/internal/models"
	"github.com/bookvault/api/internal/repo"
)

// UsersService covers the account-administration operations guarded by
// the authorization policies; who may call what is decided in the
// middleware, not here.
type UsersService struct {
	Repo *repo.GormRepo
}

func (s *UsersService) List(ctx context.Context, f repo.ListFilter) ([]models.User, int64, error) {
	if f.Role != "" && f.Role != models.RoleAdmin && f.Role != models.RoleUser {
		return nil, 0, ErrValidation
	}
	return s.Repo.List(ctx, f)
}

func (s *UsersService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UsersService) Create(ctx context.Context, email, password, role string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrValidation
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: pwHash, Role: role}
	if err := s.Repo.CreateIfEmailFree(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

type UpdateUserParams struct {
	Email    *string
	Password *string
}

func (s *UsersService) Update(ctx context.Context, id string, p UpdateUserParams) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Email != nil && *p.Email != user.Email {
		existing, err := s.Repo.FindByEmail(ctx, *p.Email)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrConflict
		}
		user.Email = *p.Email
	}

	if p.Password != nil {
		if *p.Password == "" {
			return nil, ErrValidation
		}
		pwHash, err := hash.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
