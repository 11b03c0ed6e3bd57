package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Course is a scheduled training course run by a single trainer.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	CourseID    string    `bun:"course_id,pk,type:varchar(26)" json:"courseId"`
	Title       string    `bun:"title,notnull,type:varchar(200)" json:"title"`
	Description *string   `bun:"description,type:varchar(1000)" json:"description,omitempty"`
	StartDate   time.Time `bun:"start_date,notnull" json:"startDate"`
	EndDate     time.Time `bun:"end_date,notnull" json:"endDate"`
	Price       float64   `bun:"price,notnull,type:double precision" json:"price"`
	TotalHours  int       `bun:"total_hours,notnull" json:"totalHours"`
	MaxCapacity *int      `bun:"max_capacity" json:"maxCapacity,omitempty"`
	TrainerID   string    `bun:"trainer_id,notnull,type:varchar(26)" json:"trainerId"`

	Trainer *Trainer `bun:"rel:belongs-to,join:trainer_id=trainer_id" json:"trainer,omitempty"`
}
