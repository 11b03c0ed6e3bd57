package service

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/repository"
)

// PaymentInput is the writable part of a payment.
type PaymentInput struct {
	TrainerID   string
	CourseID    string
	Amount      float64
	PaymentDate time.Time
}

func (in PaymentInput) applyTo(p *models.Payment) {
	p.TrainerID = in.TrainerID
	p.CourseID = in.CourseID
	p.Amount = in.Amount
	p.PaymentDate = in.PaymentDate
}

// PaymentService manages payments.
type PaymentService struct {
	db  *bun.DB
	log *zap.Logger
}

// NewPaymentService returns a PaymentService using db.
func NewPaymentService(db *bun.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, log: log.Named("payments")}
}

func (s *PaymentService) payments() (*repository.UnitOfWork, *repository.Repository[models.Payment]) {
	uow := repository.NewUnitOfWork(s.db)
	return uow, repository.For[models.Payment](uow)
}

// GetByID returns the payment with its trainer and course, or ErrNotFound.
func (s *PaymentService) GetByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	s.log.Debug("get payment", zap.String("payment_id", paymentID))
	_, repo := s.payments()
	p, err := repo.First(ctx, paymentByIDSpec(paymentID))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// GetAll returns every payment by payment date.
func (s *PaymentService) GetAll(ctx context.Context) ([]models.Payment, error) {
	s.log.Debug("get all payments")
	_, repo := s.payments()
	return repo.List(ctx, allPaymentsSpec())
}

// ForTrainer returns a trainer's payments by payment date.
func (s *PaymentService) ForTrainer(ctx context.Context, trainerID string) ([]models.Payment, error) {
	s.log.Debug("get payments for trainer", zap.String("trainer_id", trainerID))
	_, repo := s.payments()
	return repo.List(ctx, paymentsByTrainerSpec(trainerID))
}

// Create records a payment against an existing trainer and course.
func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	s.log.Info("create payment", zap.String("trainer_id", in.TrainerID), zap.String("course_id", in.CourseID))
	if err := s.requireReferences(ctx, in); err != nil {
		return nil, err
	}

	p := &models.Payment{PaymentID: models.NewID()}
	in.applyTo(p)

	uow, repo := s.payments()
	if err := repo.Add(ctx, p); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("payment created", zap.String("payment_id", p.PaymentID))
	return p, nil
}

// Update merges in into the stored payment, or returns ErrNotFound without writing.
func (s *PaymentService) Update(ctx context.Context, paymentID string, in PaymentInput) (*models.Payment, error) {
	s.log.Info("update payment", zap.String("payment_id", paymentID))
	p, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if in.TrainerID != p.TrainerID || in.CourseID != p.CourseID {
		if err := s.requireReferences(ctx, in); err != nil {
			return nil, err
		}
		p.Trainer, p.Course = nil, nil
	}
	in.applyTo(p)

	uow, repo := s.payments()
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("payment updated", zap.String("payment_id", paymentID))
	return p, nil
}

// Delete removes the payment. It reports false, with no error, when there was nothing to delete.
func (s *PaymentService) Delete(ctx context.Context, paymentID string) (bool, error) {
	s.log.Info("delete payment", zap.String("payment_id", paymentID))
	p, err := s.GetByID(ctx, paymentID)
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("attempted to delete non-existent payment", zap.String("payment_id", paymentID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	uow, repo := s.payments()
	if err := repo.Delete(ctx, p); err != nil {
		return false, err
	}
	if err := uow.Commit(ctx); err != nil {
		return deleteFailed(s.log, err, zap.String("payment_id", paymentID))
	}
	s.log.Info("payment deleted", zap.String("payment_id", paymentID))
	return true, nil
}

func (s *PaymentService) requireReferences(ctx context.Context, in PaymentInput) error {
	uow := repository.NewUnitOfWork(s.db)
	var msgs []string

	n, err := repository.For[models.Trainer](uow).Count(ctx, trainerExistsSpec(in.TrainerID))
	if err != nil {
		return err
	}
	if n == 0 {
		msgs = append(msgs, "Trainer ID does not reference an existing trainer.")
	}

	n, err = repository.For[models.Course](uow).Count(ctx, courseExistsSpec(in.CourseID))
	if err != nil {
		return err
	}
	if n == 0 {
		msgs = append(msgs, "Course ID does not reference an existing course.")
	}

	if len(msgs) > 0 {
		return invalid(msgs...)
	}
	return nil
}
