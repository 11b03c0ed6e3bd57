package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Roles carried in access tokens.
const (
	RoleAdmin   = "Admin"
	RoleTrainer = "Trainer"
)

// User is a login account with a bcrypt-hashed password.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string `bun:"id,pk,type:varchar(26)" json:"id"`
	Username  string `bun:"username,notnull,unique" json:"username"`
	Email     string `bun:"email,notnull,unique" json:"email"`
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Password  string `bun:"password,notnull" json:"-"`
	Role      string `bun:"role,notnull" json:"role"`

	// Confirmation and reset tokens are stored as SHA-256 digests.
	EmailConfirmed         bool      `bun:"email_confirmed,notnull,default:false" json:"emailConfirmed"`
	ConfirmToken           *string   `bun:"confirm_token" json:"-"`
	PasswordResetToken     *string   `bun:"password_reset_token" json:"-"`
	PasswordResetExpiresAt time.Time `bun:"password_reset_expires_at,nullzero" json:"-"`

	RefreshToken          *string   `bun:"refresh_token" json:"-"`
	RefreshTokenExpiresAt time.Time `bun:"refresh_token_expires_at,nullzero" json:"-"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
