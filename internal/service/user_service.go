package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, actor security.Actor, limit, offset int) ([]models.User, int, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin}, ""); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Get returns a single account; owners may read themselves, admins anyone.
func (s *UserService) Get(ctx context.Context, actor security.Actor, id string) (models.User, error) {
	if err := security.Authorize(actor, nil, id); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Status    models.AccountStatus // admin only
}

// Update edits profile fields. Role never changes through this path, and
// status changes are admin-only.
func (s *UserService) Update(ctx context.Context, actor security.Actor, id string, input UpdateUserInput) (models.User, error) {
	if err := security.Authorize(actor, nil, id); err != nil {
		return models.User{}, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" {
		return models.User{}, fmt.Errorf("%w: first name, last name and email are required", ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return models.User{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if input.Status != "" && !actor.IsAdmin() {
		return models.User{}, security.ErrRoleForbidden
	}
	if input.Status != "" && !input.Status.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown account status %q", ErrValidation, input.Status)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone
	if input.Status != "" {
		user.Status = input.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, actor security.Actor, id, current, next string) error {
	if err := security.Authorize(actor, nil, id); err != nil {
		return err
	}
	if len(next) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, passwordHash); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("password changed")
	return nil
}

// Delete removes an account; owners may delete themselves, admins anyone.
func (s *UserService) Delete(ctx context.Context, actor security.Actor, id string) error {
	if err := security.Authorize(actor, nil, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
