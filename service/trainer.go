package service

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/repository"
)

// TrainerService manages trainer profiles and their course and payment listings.
type TrainerService struct {
	db  *bun.DB
	log *zap.Logger
}

// NewTrainerService returns a TrainerService using db.
func NewTrainerService(db *bun.DB, log *zap.Logger) *TrainerService {
	return &TrainerService{db: db, log: log.Named("trainers")}
}

func (s *TrainerService) trainers() (*repository.UnitOfWork, *repository.Repository[models.Trainer]) {
	uow := repository.NewUnitOfWork(s.db)
	return uow, repository.For[models.Trainer](uow)
}

// GetByID returns the trainer with its user, courses and payments, or ErrNotFound.
func (s *TrainerService) GetByID(ctx context.Context, trainerID string) (*models.Trainer, error) {
	s.log.Debug("get trainer", zap.String("trainer_id", trainerID))
	_, repo := s.trainers()
	t, err := repo.First(ctx, trainerByIDSpec(trainerID))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// GetByUserID returns the trainer owned by a user account, or ErrNotFound.
func (s *TrainerService) GetByUserID(ctx context.Context, userID string) (*models.Trainer, error) {
	s.log.Debug("get trainer by user", zap.String("user_id", userID))
	_, repo := s.trainers()
	t, err := repo.First(ctx, trainerByUserIDSpec(userID))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// GetAll returns every trainer ordered by id.
func (s *TrainerService) GetAll(ctx context.Context) ([]models.Trainer, error) {
	s.log.Debug("get all trainers")
	_, repo := s.trainers()
	return repo.List(ctx, allTrainersSpec())
}

// Create inserts a trainer profile for an existing user.
func (s *TrainerService) Create(ctx context.Context, userID, bio string) (*models.Trainer, error) {
	s.log.Info("create trainer", zap.String("user_id", userID))
	t := &models.Trainer{TrainerID: models.NewID(), UserID: userID, Bio: bio}

	uow, repo := s.trainers()
	if err := repo.Add(ctx, t); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("trainer created", zap.String("trainer_id", t.TrainerID))
	return t, nil
}

// Update replaces the trainer's bio. It returns ErrNotFound without writing when absent.
func (s *TrainerService) Update(ctx context.Context, trainerID, bio string) (*models.Trainer, error) {
	s.log.Info("update trainer", zap.String("trainer_id", trainerID))
	t, err := s.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	t.Bio = bio

	uow, repo := s.trainers()
	if err := repo.Update(ctx, t); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("trainer updated", zap.String("trainer_id", trainerID))
	return t, nil
}

// Delete removes the trainer profile. Courses and payments keep their trainer id.
// It reports false, with no error, when there was nothing to delete.
func (s *TrainerService) Delete(ctx context.Context, trainerID string) (bool, error) {
	s.log.Info("delete trainer", zap.String("trainer_id", trainerID))
	t, err := s.GetByID(ctx, trainerID)
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("attempted to delete non-existent trainer", zap.String("trainer_id", trainerID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	uow, repo := s.trainers()
	if err := repo.Delete(ctx, t); err != nil {
		return false, err
	}
	if err := uow.Commit(ctx); err != nil {
		return deleteFailed(s.log, err, zap.String("trainer_id", trainerID))
	}
	s.log.Info("trainer deleted", zap.String("trainer_id", trainerID))
	return true, nil
}

// CoursesFor lists a trainer's courses by start date.
func (s *TrainerService) CoursesFor(ctx context.Context, trainerID string) ([]models.Course, error) {
	s.log.Debug("get courses for trainer", zap.String("trainer_id", trainerID))
	uow := repository.NewUnitOfWork(s.db)
	return repository.For[models.Course](uow).List(ctx, coursesByTrainerSpec(trainerID))
}

// PaymentsFor lists a trainer's payments by payment date.
func (s *TrainerService) PaymentsFor(ctx context.Context, trainerID string) ([]models.Payment, error) {
	s.log.Debug("get payments for trainer", zap.String("trainer_id", trainerID))
	uow := repository.NewUnitOfWork(s.db)
	return repository.For[models.Payment](uow).List(ctx, paymentsByTrainerSpec(trainerID))
}
