package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

type stubTrainers struct {
	byUser map[string]string
	err    error
	calls  int
}

func (s *stubTrainers) GetByUserID(_ context.Context, userID string) (*models.Trainer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.byUser[userID]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &models.Trainer{TrainerID: id, UserID: userID}, nil
}

func TestCanAccess(t *testing.T) {
	own, other := models.NewID(), models.NewID()
	trainers := &stubTrainers{byUser: map[string]string{"user-1": own}}
	policy := NewOwnershipPolicy(trainers)

	tests := []struct {
		name   string
		caller Caller
		target string
		want   bool
	}{
		{"admin any trainer", Caller{UserID: "admin-1", Role: models.RoleAdmin}, other, true},
		{"admin without identity", Caller{Role: models.RoleAdmin}, own, true},
		{"trainer own record", Caller{UserID: "user-1", Role: models.RoleTrainer}, own, true},
		{"trainer other record", Caller{UserID: "user-1", Role: models.RoleTrainer}, other, false},
		{"no identity claim", Caller{Role: models.RoleTrainer}, own, false},
		{"user owns no trainer", Caller{UserID: "user-2", Role: models.RoleTrainer}, own, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.CanAccess(context.Background(), tt.caller, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdminSkipsLookup(t *testing.T) {
	trainers := &stubTrainers{}
	ok, err := NewOwnershipPolicy(trainers).CanAccess(context.Background(), Caller{Role: models.RoleAdmin}, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, trainers.calls)
}

func TestStoreFailureIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	policy := NewOwnershipPolicy(&stubTrainers{err: boom})

	ok, err := policy.CanAccess(context.Background(), Caller{UserID: "u", Role: models.RoleTrainer}, "t")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
