package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users repository.UserRepo
	now   func() time.Time
}

func NewUserService(users repository.UserRepo, now func() time.Time) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{users: users, now: now}
}

func (s *userService) Ensure(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("user name is required")
	}

	u, err := s.users.GetByName(ctx, name)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u = &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
