package models

import "github.com/uptrace/bun"

// Admin is an administrative identity. Admins are not scoped to any trainer.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	AdminID  string `bun:"admin_id,pk,type:varchar(26)" json:"adminId"`
	UserID   string `bun:"user_id,notnull,unique,type:varchar(26)" json:"userId"`
	Position string `bun:"position,notnull" json:"position"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
