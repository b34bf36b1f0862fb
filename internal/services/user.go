package services

import (
	"context"
	"errors"
	"time"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	Store    userUSStore
	clockNow func() time.Time
}

func NewUserService(store userUSStore) *userService {
	return &userService{
		Store:    store,
		clockNow: time.Now,
	}
}

// CreateUser handles the identity provider's user.created event. Webhooks
// redeliver, so an existing user is updated instead of failing.
func (s *userService) CreateUser(ctx context.Context, data dto.IdentityUserData) error {
	log := logger.FromContext(ctx)

	now := s.clockNow()
	user := &models.User{
		UID:       data.ID,
		Email:     data.PrimaryEmail(),
		FirstName: data.FirstName,
		LastName:  data.LastName,
		ImageURL:  data.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.CreateUser(ctx, user)
	var exists *errs.AlreadyExistsError
	if errors.As(err, &exists) {
		log.Info("user already exists, updating instead", "uid", data.ID)
		return s.Store.UpdateUser(ctx, user)
	}
	if err != nil {
		log.Error("failed to create user in store", "error", err)
		return err
	}

	log.Info("user created", "uid", data.ID)
	return nil
}

func (s *userService) UpdateUser(ctx context.Context, data dto.IdentityUserData) error {
	log := logger.FromContext(ctx)

	user := &models.User{
		UID:       data.ID,
		Email:     data.PrimaryEmail(),
		FirstName: data.FirstName,
		LastName:  data.LastName,
		ImageURL:  data.ImageURL,
		UpdatedAt: s.clockNow(),
	}

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		log.Error("failed to update user in store", "error", err)
		return err
	}
	log.Info("user updated", "uid", data.ID)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, uid string) error {
	log := logger.FromContext(ctx)

	if err := s.Store.DeleteUser(ctx, uid); err != nil {
		log.Error("failed to delete user in store", "error", err)
		return err
	}
	log.Info("user deleted", "uid", uid)
	return nil
}

func (s *userService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}
