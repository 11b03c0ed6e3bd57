package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap/zaptest"

	"github.com/padraicbc/courseapi/db/dbtest"
	"github.com/padraicbc/courseapi/mail"
	"github.com/padraicbc/courseapi/models"
)

type fixture struct {
	db       *bun.DB
	courses  *CourseService
	trainers *TrainerService
	payments *PaymentService
	admins   *AdminService
	auth     *AuthService
	mail     *mail.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bdb := dbtest.Open(t)
	log := zaptest.NewLogger(t)
	rec := &mail.Recorder{}
	return &fixture{
		db:       bdb,
		courses:  NewCourseService(bdb, log),
		trainers: NewTrainerService(bdb, log),
		payments: NewPaymentService(bdb, log),
		admins:   NewAdminService(bdb, log),
		auth: NewAuthService(bdb, log, AuthConfig{
			RefreshTTL: 24 * time.Hour,
			Mailer:     rec,
			PublicURL:  "https://courses.test",
		}),
		mail: rec,
	}
}

func (f *fixture) trainer(t *testing.T) *models.Trainer {
	t.Helper()
	tr, err := f.trainers.Create(context.Background(), models.NewID(), "bio")
	require.NoError(t, err)
	return tr
}

func (f *fixture) course(t *testing.T, trainerID, title string, price float64) *models.Course {
	t.Helper()
	c, err := f.courses.Create(context.Background(), courseInput(trainerID, title, price))
	require.NoError(t, err)
	return c
}

func (f *fixture) count(t *testing.T, model interface{}) int {
	t.Helper()
	n, err := f.db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func courseInput(trainerID, title string, price float64) CourseInput {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return CourseInput{
		Title:      title,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 9),
		Price:      price,
		TotalHours: 10,
		TrainerID:  trainerID,
	}
}

func ptr[T any](v T) *T { return &v }
