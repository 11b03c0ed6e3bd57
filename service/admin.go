package service

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/repository"
)

// AdminService looks up administrator profiles.
type AdminService struct {
	db  *bun.DB
	log *zap.Logger
}

// NewAdminService returns an AdminService using db.
func NewAdminService(db *bun.DB, log *zap.Logger) *AdminService {
	return &AdminService{db: db, log: log.Named("admins")}
}

// GetByUserID returns the admin profile of a user account, or ErrNotFound.
func (s *AdminService) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	s.log.Debug("get admin by user", zap.String("user_id", userID))
	a, err := repository.For[models.Admin](repository.NewUnitOfWork(s.db)).First(ctx, adminByUserIDSpec(userID))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// GetByID returns the admin profile, or ErrNotFound.
func (s *AdminService) GetByID(ctx context.Context, adminID string) (*models.Admin, error) {
	s.log.Debug("get admin", zap.String("admin_id", adminID))
	a, err := repository.For[models.Admin](repository.NewUnitOfWork(s.db)).First(ctx, adminByIDSpec(adminID))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}
