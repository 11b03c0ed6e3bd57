package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment records money paid to a trainer for a course.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	PaymentID   string    `bun:"payment_id,pk,type:varchar(26)" json:"paymentId"`
	TrainerID   string    `bun:"trainer_id,notnull,type:varchar(26)" json:"trainerId"`
	CourseID    string    `bun:"course_id,notnull,type:varchar(26)" json:"courseId"`
	Amount      float64   `bun:"amount,notnull,type:double precision" json:"amount"`
	PaymentDate time.Time `bun:"payment_date,notnull" json:"paymentDate"`

	Trainer *Trainer `bun:"rel:belongs-to,join:trainer_id=trainer_id" json:"trainer,omitempty"`
	Course  *Course  `bun:"rel:belongs-to,join:course_id=course_id" json:"course,omitempty"`
}
