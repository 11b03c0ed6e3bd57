package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/courseapi/mail"
	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/repository"
)

// ResetTokenTTL is how long a password reset link stays usable.
const ResetTokenTTL = time.Hour

// RegisterInput describes a new login account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Identity is an authenticated account together with its role profile id
// (the trainer id for trainers, the admin id for admins).
type Identity struct {
	User      *models.User
	Role      string
	ProfileID string
}

// Session is the result of a successful login or refresh.
type Session struct {
	Identity
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthConfig configures token lifetimes and account email for an AuthService.
type AuthConfig struct {
	RefreshTTL time.Duration
	// Mailer delivers confirmation and reset links. Nil drops them.
	Mailer mail.Sender
	// PublicURL is the externally reachable base the emailed links point at.
	PublicURL string
}

// AuthService registers accounts and manages credentials, email confirmation and refresh tokens.
type AuthService struct {
	db         *bun.DB
	log        *zap.Logger
	refreshTTL time.Duration
	mailer     mail.Sender
	publicURL  string
	now        func() time.Time
}

// NewAuthService returns an AuthService configured by cfg.
func NewAuthService(db *bun.DB, log *zap.Logger, cfg AuthConfig) *AuthService {
	return &AuthService{
		db:         db,
		log:        log.Named("auth"),
		refreshTTL: cfg.RefreshTTL,
		mailer:     cfg.Mailer,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		now:        time.Now,
	}
}

// HashPassword returns a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// RegisterTrainer creates the login account and the trainer profile in a single commit.
func (s *AuthService) RegisterTrainer(ctx context.Context, in RegisterInput, bio string) (*models.Trainer, error) {
	s.log.Info("register trainer", zap.String("username", in.Username))
	user, err := s.newUser(ctx, in, models.RoleTrainer)
	if err != nil {
		return nil, err
	}
	confirmToken, err := issueToken(&user.ConfirmToken)
	if err != nil {
		return nil, err
	}
	trainer := &models.Trainer{TrainerID: models.NewID(), UserID: user.ID, Bio: bio}

	uow := repository.NewUnitOfWork(s.db)
	if err := repository.For[models.User](uow).Add(ctx, user); err != nil {
		return nil, err
	}
	if err := repository.For[models.Trainer](uow).Add(ctx, trainer); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, uow); err != nil {
		return nil, err
	}

	trainer.User = user
	s.log.Info("trainer registered", zap.String("username", user.Username), zap.String("trainer_id", trainer.TrainerID))
	s.sendConfirmation(ctx, user, confirmToken)
	return trainer, nil
}

// RegisterAdmin creates the login account and the admin profile in a single commit.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput, position string) (*models.Admin, error) {
	s.log.Info("register admin", zap.String("username", in.Username))
	user, err := s.newUser(ctx, in, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	confirmToken, err := issueToken(&user.ConfirmToken)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{AdminID: models.NewID(), UserID: user.ID, Position: position}

	uow := repository.NewUnitOfWork(s.db)
	if err := repository.For[models.User](uow).Add(ctx, user); err != nil {
		return nil, err
	}
	if err := repository.For[models.Admin](uow).Add(ctx, admin); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, uow); err != nil {
		return nil, err
	}

	admin.User = user
	s.log.Info("admin registered", zap.String("username", user.Username), zap.String("admin_id", admin.AdminID))
	s.sendConfirmation(ctx, user, confirmToken)
	return admin, nil
}

// Login checks email and password and starts a new refresh-token session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	s.log.Info("login attempt", zap.String("email", email))

	users := repository.For[models.User](repository.NewUnitOfWork(s.db))
	user, err := users.First(ctx, userByEmailSpec(email))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Warn("login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

// Refresh exchanges a live refresh token for a new session. The old token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidCredentials
	}
	users := repository.For[models.User](repository.NewUnitOfWork(s.db))
	user, err := users.First(ctx, userByRefreshTokenSpec(refreshToken))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.now().Before(user.RefreshTokenExpiresAt) {
		s.log.Warn("refresh rejected")
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

// Revoke drops the user's refresh token.
func (s *AuthService) Revoke(ctx context.Context, userID string) error {
	s.log.Info("revoke refresh token", zap.String("user_id", userID))
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = nil
	user.RefreshTokenExpiresAt = time.Time{}
	return s.saveUser(ctx, user)
}

// ChangePassword replaces the password after checking the current one.
// Existing refresh tokens are revoked.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	s.log.Info("change password", zap.String("user_id", userID))
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return invalid("New password is required.")
	}
	user.Password = hash
	user.RefreshToken = nil
	user.RefreshTokenExpiresAt = time.Time{}
	return s.saveUser(ctx, user)
}

// ConfirmEmail marks the account's email as confirmed when token matches the last one sent.
// Confirming an already confirmed account succeeds.
func (s *AuthService) ConfirmEmail(ctx context.Context, userID, token string) error {
	s.log.Info("confirm email", zap.String("user_id", userID))
	user, err := repository.For[models.User](repository.NewUnitOfWork(s.db)).First(ctx, userByIDSpec(userID))
	if err != nil {
		return err
	}
	if user != nil && user.EmailConfirmed {
		return nil
	}
	if user == nil || !tokenMatches(user.ConfirmToken, token) {
		s.log.Warn("email confirmation rejected", zap.String("user_id", userID))
		return invalid("Invalid email confirmation token.")
	}
	user.EmailConfirmed = true
	user.ConfirmToken = nil
	return s.saveUser(ctx, user)
}

// ResendConfirmation sends a fresh confirmation link, replacing the previous one.
// Unknown and already confirmed addresses are ignored so the response does not reveal which addresses have accounts.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	s.log.Info("resend email confirmation", zap.String("email", email))
	user, err := repository.For[models.User](repository.NewUnitOfWork(s.db)).First(ctx, userByEmailSpec(email))
	if err != nil {
		return err
	}
	if user == nil || user.EmailConfirmed {
		s.log.Warn("confirmation not resent", zap.String("email", email))
		return nil
	}
	token, err := issueToken(&user.ConfirmToken)
	if err != nil {
		return err
	}
	if err := s.saveUser(ctx, user); err != nil {
		return err
	}
	s.sendConfirmation(ctx, user, token)
	return nil
}

// ForgotPassword emails a password reset link valid for ResetTokenTTL.
// Unknown addresses are ignored so the response does not reveal which addresses have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	s.log.Info("forgot password", zap.String("email", email))
	user, err := repository.For[models.User](repository.NewUnitOfWork(s.db)).First(ctx, userByEmailSpec(email))
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Warn("password reset requested for unknown email", zap.String("email", email))
		return nil
	}
	token, err := issueToken(&user.PasswordResetToken)
	if err != nil {
		return err
	}
	user.PasswordResetExpiresAt = s.now().Add(ResetTokenTTL).UTC()
	if err := s.saveUser(ctx, user); err != nil {
		return err
	}

	link := s.link("/api/auth/reset-password", url.Values{"email": {user.Email}, "token": {token}})
	s.send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body:    "Use this link within the hour to choose a new password:\n\n" + link,
	})
	return nil
}

// ResetPassword sets a new password using a token from ForgotPassword. The token is
// single use and existing refresh tokens are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, next string) error {
	email = normalizeEmail(email)
	s.log.Info("reset password", zap.String("email", email))
	user, err := repository.For[models.User](repository.NewUnitOfWork(s.db)).First(ctx, userByEmailSpec(email))
	if err != nil {
		return err
	}
	if user == nil || !tokenMatches(user.PasswordResetToken, token) || !s.now().Before(user.PasswordResetExpiresAt) {
		s.log.Warn("password reset rejected", zap.String("email", email))
		return invalid("Invalid or expired password reset token.")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return invalid("New password is required.")
	}
	user.Password = hash
	user.PasswordResetToken = nil
	user.PasswordResetExpiresAt = time.Time{}
	user.RefreshToken = nil
	user.RefreshTokenExpiresAt = time.Time{}
	return s.saveUser(ctx, user)
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *models.User, token string) {
	link := s.link("/api/auth/confirm-email", url.Values{"userId": {user.ID}, "token": {token}})
	s.send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Confirm your email",
		Body:    "Confirm your email address by opening this link:\n\n" + link,
	})
}

// send never fails the calling operation; the account change is already committed.
func (s *AuthService) send(ctx context.Context, m mail.Message) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, m); err != nil {
		s.log.Error("email not sent", zap.String("to", m.To), zap.String("subject", m.Subject), zap.Error(err))
	}
}

func (s *AuthService) link(path string, q url.Values) string {
	return s.publicURL + path + "?" + q.Encode()
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*Session, error) {
	id, err := s.identify(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.refreshTTL).UTC()
	user.RefreshToken = &token
	user.RefreshTokenExpiresAt = expires
	if err := s.saveUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("session started", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return &Session{Identity: *id, RefreshToken: token, RefreshExpiresAt: expires}, nil
}

func (s *AuthService) identify(ctx context.Context, user *models.User) (*Identity, error) {
	id := &Identity{User: user, Role: user.Role}
	uow := repository.NewUnitOfWork(s.db)
	switch user.Role {
	case models.RoleAdmin:
		a, err := repository.For[models.Admin](uow).First(ctx, adminByUserIDSpec(user.ID))
		if err != nil {
			return nil, err
		}
		if a != nil {
			id.ProfileID = a.AdminID
		}
	case models.RoleTrainer:
		t, err := repository.For[models.Trainer](uow).First(ctx, trainerByUserIDSpec(user.ID))
		if err != nil {
			return nil, err
		}
		if t != nil {
			id.ProfileID = t.TrainerID
		}
	}
	return id, nil
}

func (s *AuthService) newUser(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	users := repository.For[models.User](repository.NewUnitOfWork(s.db))
	n, err := users.Count(ctx, userByEmailSpec(in.Email))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.log.Warn("email already registered", zap.String("email", in.Email))
		return nil, fmt.Errorf("%w: this email is already registered", ErrConflict)
	}
	n, err = users.Count(ctx, userByUsernameSpec(in.Username))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.log.Warn("username already taken", zap.String("username", in.Username))
		return nil, fmt.Errorf("%w: this username is already taken", ErrConflict)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, invalid("Password is required.")
	}
	return &models.User{
		ID:        models.NewID(),
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}, nil
}

func (s *AuthService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := repository.For[models.User](repository.NewUnitOfWork(s.db)).First(ctx, userByIDSpec(userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AuthService) saveUser(ctx context.Context, user *models.User) error {
	uow := repository.NewUnitOfWork(s.db)
	if err := repository.For[models.User](uow).Update(ctx, user); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// commit maps unique-index violations raced past the pre-checks onto ErrConflict.
func (s *AuthService) commit(ctx context.Context, uow *repository.UnitOfWork) error {
	err := uow.Commit(ctx)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: account already exists", ErrConflict)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueToken generates a random token, stores its digest in *dst and returns the token.
func issueToken(dst **string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	digest := tokenDigest(token)
	*dst = &digest
	return token, nil
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func tokenMatches(stored *string, token string) bool {
	if stored == nil || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(tokenDigest(token))) == 1
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
