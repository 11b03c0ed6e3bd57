// Package authz decides whether a caller may act on a trainer-scoped resource.
package authz

import (
	"context"
	"errors"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

// Caller is the authenticated principal of a request, as read from its access token.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// TrainerFinder resolves the trainer profile owned by a user account.
// It returns service.ErrNotFound when the user owns no trainer.
type TrainerFinder interface {
	GetByUserID(ctx context.Context, userID string) (*models.Trainer, error)
}

// Policy answers ownership questions about trainer-scoped resources.
type Policy interface {
	CanAccess(ctx context.Context, caller Caller, trainerID string) (bool, error)
}

// OwnershipPolicy grants admins everything and trainers only their own record.
type OwnershipPolicy struct {
	trainers TrainerFinder
}

// NewOwnershipPolicy returns a Policy backed by trainers.
func NewOwnershipPolicy(trainers TrainerFinder) *OwnershipPolicy {
	return &OwnershipPolicy{trainers: trainers}
}

// CanAccess reports whether caller may act on the trainer with id trainerID.
// Only the trainer id is compared; callers protecting courses or payments must pass
// the trainer id those resources belong to. Store failures other than not-found are returned.
func (p *OwnershipPolicy) CanAccess(ctx context.Context, caller Caller, trainerID string) (bool, error) {
	if caller.IsAdmin() {
		return true, nil
	}
	if caller.UserID == "" {
		return false, nil
	}

	t, err := p.trainers.GetByUserID(ctx, caller.UserID)
	if errors.Is(err, service.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.TrainerID == trainerID, nil
}
