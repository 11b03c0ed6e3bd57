package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/courseapi/mail"
	"github.com/padraicbc/courseapi/models"
)

var ann = RegisterInput{Username: "ann", Email: "ann@example.com", Password: "password1", FirstName: "Ann", LastName: "Lee"}

func TestRegisterTrainerConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)

	sameEmail := ann
	sameEmail.Username = "other"
	sameEmail.Email = " ANN@example.com "
	_, err = f.auth.RegisterTrainer(ctx, sameEmail, "bio")
	assert.ErrorIs(t, err, ErrConflict)

	sameName := ann
	sameName.Email = "other@example.com"
	_, err = f.auth.RegisterTrainer(ctx, sameName, "bio")
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 1, f.count(t, (*models.User)(nil)))
	assert.Equal(t, 1, f.count(t, (*models.Trainer)(nil)))
}

func TestLoginResolvesProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tr, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)
	admin, err := f.auth.RegisterAdmin(ctx, RegisterInput{
		Username: "root", Email: "root@example.com", Password: "password1", FirstName: "R", LastName: "T",
	}, "Head")
	require.NoError(t, err)

	s, err := f.auth.Login(ctx, "ANN@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainer, s.Role)
	assert.Equal(t, tr.TrainerID, s.ProfileID)
	assert.NotEmpty(t, s.RefreshToken)

	s, err = f.auth.Login(ctx, "root@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, s.Role)
	assert.Equal(t, admin.AdminID, s.ProfileID)

	got, err := f.admins.GetByUserID(ctx, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Head", got.Position)
	got, err = f.admins.GetByID(ctx, admin.AdminID)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, got.UserID)

	_, err = f.auth.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)

	first, err := f.auth.Login(ctx, ann.Email, ann.Password)
	require.NoError(t, err)

	second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old token must be single use")

	f.auth.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "expired token")
}

func TestRevokeAndChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)

	s, err := f.auth.Login(ctx, ann.Email, ann.Password)
	require.NoError(t, err)
	require.NoError(t, f.auth.Revoke(ctx, tr.UserID))
	_, err = f.auth.Refresh(ctx, s.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, f.auth.ChangePassword(ctx, tr.UserID, "wrong", "password2"), ErrInvalidCredentials)
	require.NoError(t, f.auth.ChangePassword(ctx, tr.UserID, "password1", "password2"))

	_, err = f.auth.Login(ctx, ann.Email, "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, ann.Email, "password2")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.auth.Revoke(ctx, models.NewID()), ErrNotFound)
}

func TestPageMath(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {100, 1, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newPage([]int(nil), 1, tt.size, tt.total).TotalPages, "%+v", tt)
	}
}

// emailedLink returns the link on the last line of the latest message sent to addr.
func emailedLink(t *testing.T, rec *mail.Recorder, addr string) *url.URL {
	t.Helper()
	m, ok := rec.Last(addr)
	require.True(t, ok, "no mail for %s", addr)
	lines := strings.Split(strings.TrimSpace(m.Body), "\n")
	u, err := url.Parse(lines[len(lines)-1])
	require.NoError(t, err)
	return u
}

func TestRegistrationSendsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)
	assert.False(t, tr.User.EmailConfirmed)

	link := emailedLink(t, f.mail, ann.Email)
	assert.Equal(t, "courses.test", link.Host)
	assert.Equal(t, "/api/auth/confirm-email", link.Path)
	assert.Equal(t, tr.UserID, link.Query().Get("userId"))
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// Only the digest is stored.
	stored := new(models.User)
	require.NoError(t, f.db.NewSelect().Model(stored).Where("id = ?", tr.UserID).Scan(ctx))
	require.NotNil(t, stored.ConfirmToken)
	assert.NotEqual(t, token, *stored.ConfirmToken)

	var verr *ValidationError
	assert.True(t, errors.As(f.auth.ConfirmEmail(ctx, tr.UserID, "wrong"), &verr))
	assert.True(t, errors.As(f.auth.ConfirmEmail(ctx, models.NewID(), token), &verr))

	require.NoError(t, f.auth.ConfirmEmail(ctx, tr.UserID, token))
	require.NoError(t, f.db.NewSelect().Model(stored).Where("id = ?", tr.UserID).Scan(ctx))
	assert.True(t, stored.EmailConfirmed)
	assert.Nil(t, stored.ConfirmToken)

	// A second click on the same link is harmless.
	assert.NoError(t, f.auth.ConfirmEmail(ctx, tr.UserID, token))
}

func TestResendConfirmationReplacesToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)
	first := emailedLink(t, f.mail, ann.Email).Query().Get("token")

	require.NoError(t, f.auth.ResendConfirmation(ctx, " ANN@example.com "))
	require.Len(t, f.mail.Sent, 2)
	second := emailedLink(t, f.mail, ann.Email).Query().Get("token")
	assert.NotEqual(t, first, second)

	var verr *ValidationError
	assert.True(t, errors.As(f.auth.ConfirmEmail(ctx, tr.UserID, first), &verr))
	require.NoError(t, f.auth.ConfirmEmail(ctx, tr.UserID, second))

	// Confirmed and unknown addresses get nothing.
	require.NoError(t, f.auth.ResendConfirmation(ctx, ann.Email))
	require.NoError(t, f.auth.ResendConfirmation(ctx, "nobody@example.com"))
	assert.Len(t, f.mail.Sent, 2)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)
	s, err := f.auth.Login(ctx, ann.Email, ann.Password)
	require.NoError(t, err)

	require.NoError(t, f.auth.ForgotPassword(ctx, "nobody@example.com"))
	assert.Len(t, f.mail.Sent, 1)

	require.NoError(t, f.auth.ForgotPassword(ctx, ann.Email))
	link := emailedLink(t, f.mail, ann.Email)
	assert.Equal(t, "/api/auth/reset-password", link.Path)
	assert.Equal(t, ann.Email, link.Query().Get("email"))
	token := link.Query().Get("token")

	var verr *ValidationError
	assert.True(t, errors.As(f.auth.ResetPassword(ctx, ann.Email, "wrong", "password2"), &verr))
	assert.True(t, errors.As(f.auth.ResetPassword(ctx, "other@example.com", token, "password2"), &verr))

	require.NoError(t, f.auth.ResetPassword(ctx, ann.Email, token, "password2"))
	_, err = f.auth.Login(ctx, ann.Email, "password2")
	assert.NoError(t, err)
	_, err = f.auth.Refresh(ctx, s.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Single use.
	assert.True(t, errors.As(f.auth.ResetPassword(ctx, ann.Email, token, "password3"), &verr))
}

func TestResetTokenExpires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.auth.RegisterTrainer(ctx, ann, "bio")
	require.NoError(t, err)

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.auth.now = func() time.Time { return now }
	require.NoError(t, f.auth.ForgotPassword(ctx, ann.Email))
	token := emailedLink(t, f.mail, ann.Email).Query().Get("token")

	now = now.Add(ResetTokenTTL)
	var verr *ValidationError
	assert.True(t, errors.As(f.auth.ResetPassword(ctx, ann.Email, token, "password2"), &verr))
}

type failingSender struct{}

func (failingSender) Send(context.Context, mail.Message) error { return errors.New("relay down") }

func TestMailFailureDoesNotFailRegistration(t *testing.T) {
	f := newFixture(t)
	f.auth.mailer = failingSender{}

	_, err := f.auth.RegisterTrainer(context.Background(), ann, "bio")
	assert.NoError(t, err)
	assert.Equal(t, 1, f.count(t, (*models.User)(nil)))
}
