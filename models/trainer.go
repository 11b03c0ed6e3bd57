package models

import "github.com/uptrace/bun"

// Trainer is the owner of courses and payments. It belongs to exactly one user account.
type Trainer struct {
	bun.BaseModel `bun:"table:trainers,alias:t"`

	TrainerID string `bun:"trainer_id,pk,type:varchar(26)" json:"trainerId"`
	UserID    string `bun:"user_id,notnull,unique,type:varchar(26)" json:"userId"`
	Bio       string `bun:"bio,notnull" json:"bio"`

	User     *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Courses  []*Course  `bun:"rel:has-many,join:trainer_id=trainer_id" json:"courses,omitempty"`
	Payments []*Payment `bun:"rel:has-many,join:trainer_id=trainer_id" json:"payments,omitempty"`
}
