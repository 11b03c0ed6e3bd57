package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/courseapi/models"
)

func TestTrainerLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tr, err := f.auth.RegisterTrainer(ctx, RegisterInput{
		Username: "ann", Email: "Ann@Example.com", Password: "password1", FirstName: "Ann", LastName: "Lee",
	}, "Go coach")
	require.NoError(t, err)
	c := f.course(t, tr.TrainerID, "Intro", 100)
	_, err = f.payments.Create(ctx, PaymentInput{TrainerID: tr.TrainerID, CourseID: c.CourseID, Amount: 50, PaymentDate: time.Now().UTC()})
	require.NoError(t, err)

	got, err := f.trainers.GetByID(ctx, tr.TrainerID)
	require.NoError(t, err)
	assert.Equal(t, "Go coach", got.Bio)
	require.NotNil(t, got.User)
	assert.Equal(t, "ann@example.com", got.User.Email)
	assert.Len(t, got.Courses, 1)
	assert.Len(t, got.Payments, 1)

	byUser, err := f.trainers.GetByUserID(ctx, tr.UserID)
	require.NoError(t, err)
	assert.Equal(t, tr.TrainerID, byUser.TrainerID)

	_, err = f.trainers.GetByUserID(ctx, models.NewID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.trainers.GetByID(ctx, models.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrainerGetAllOrderedByID(t *testing.T) {
	f := newFixture(t)
	a, b := f.trainer(t), f.trainer(t)

	all, err := f.trainers.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.TrainerID, all[0].TrainerID)
	assert.Equal(t, b.TrainerID, all[1].TrainerID)
}

func TestTrainerUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)

	_, err := f.trainers.Update(ctx, tr.TrainerID, "new bio")
	require.NoError(t, err)
	got, err := f.trainers.GetByID(ctx, tr.TrainerID)
	require.NoError(t, err)
	assert.Equal(t, "new bio", got.Bio)

	_, err = f.trainers.Update(ctx, models.NewID(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, f.count(t, (*models.Trainer)(nil)))
}

func TestTrainerDeleteLeavesCourses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	c := f.course(t, tr.TrainerID, "Stays", 10)

	deleted, err := f.trainers.Delete(ctx, tr.TrainerID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.trainers.GetByID(ctx, tr.TrainerID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.courses.GetByID(ctx, c.CourseID)
	require.NoError(t, err)
	assert.Equal(t, tr.TrainerID, got.TrainerID)

	deleted, err = f.trainers.Delete(ctx, tr.TrainerID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCoursesAndPaymentsForTrainer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine, other := f.trainer(t), f.trainer(t)

	late := courseInput(mine.TrainerID, "Late", 10)
	late.StartDate = late.StartDate.AddDate(0, 2, 0)
	late.EndDate = late.EndDate.AddDate(0, 2, 0)
	_, err := f.courses.Create(ctx, late)
	require.NoError(t, err)
	early := f.course(t, mine.TrainerID, "Early", 10)
	f.course(t, other.TrainerID, "Not mine", 10)

	courses, err := f.trainers.CoursesFor(ctx, mine.TrainerID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Early", courses[0].Title)
	assert.Equal(t, "Late", courses[1].Title)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{day.AddDate(0, 0, 5), day} {
		_, err := f.payments.Create(ctx, PaymentInput{TrainerID: mine.TrainerID, CourseID: early.CourseID, Amount: 10, PaymentDate: d})
		require.NoError(t, err)
	}

	payments, err := f.trainers.PaymentsFor(ctx, mine.TrainerID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].PaymentDate.Before(payments[1].PaymentDate))

	none, err := f.trainers.PaymentsFor(ctx, other.TrainerID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
