// Package legacy copies users, trainers, courses and payments out of the old
// catalogue database into the current schema. Rows already present are skipped,
// so an import can be re-run safely.
package legacy

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/models"
)

const batchSize = 500

// Legacy table layout. Only trainer accounts are imported; their password hashes
// are kept as-is and will not verify until the password is reset.
const (
	usersQuery = `SELECT u.Id, u.UserName, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.EmailConfirmed FROM AspNetUsers u JOIN Trainers t ON t.ApplicationUserId = u.Id`
	trainersQuery = `SELECT TrainerId, ApplicationUserId, Bio FROM Trainers`
	coursesQuery  = `SELECT CourseId, Title, Description, StartDate, EndDate, Price,
		TotalHours, MaxCapacity, TrainerId FROM Courses`
	paymentsQuery = `SELECT PaymentId, TrainerId, CourseId, Amount, PaymentDate FROM Payments`
)

// Step reports how many rows one table contributed.
type Step struct {
	Table string
	Rows  int
}

// Import copies every legacy table from src into dst, users first.
func Import(ctx context.Context, src *sql.DB, dst *bun.DB, log *zap.Logger) ([]Step, error) {
	steps := []struct {
		table string
		fn    func() (int, error)
	}{
		{"users", func() (int, error) { return copyRows(ctx, src, dst, usersQuery, scanUser) }},
		{"trainers", func() (int, error) { return copyRows(ctx, src, dst, trainersQuery, scanTrainer) }},
		{"courses", func() (int, error) { return copyRows(ctx, src, dst, coursesQuery, scanCourse) }},
		{"payments", func() (int, error) { return copyRows(ctx, src, dst, paymentsQuery, scanPayment) }},
	}

	var done []Step
	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Error("import failed", zap.String("table", s.table), zap.Int("rows", n), zap.Error(err))
			return done, err
		}
		log.Info("imported", zap.String("table", s.table), zap.Int("rows", n))
		done = append(done, Step{Table: s.table, Rows: n})
	}
	return done, nil
}

// copyRows streams query results into dst in batches of batchSize.
func copyRows[T any](ctx context.Context, src *sql.DB, dst bun.IDB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := src.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []T
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, dst, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, dst, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// bulkInsert inserts a batch, skipping rows that already exist.
func bulkInsert[T any](ctx context.Context, dst bun.IDB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := dst.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func scanUser(rows *sql.Rows) (models.User, error) {
	var (
		u    models.User
		hash sql.NullString
	)
	if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &hash, &u.EmailConfirmed); err != nil {
		return u, err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Password = hash.String
	u.Role = models.RoleTrainer
	u.CreatedAt = time.Now().UTC()
	return u, nil
}

func scanTrainer(rows *sql.Rows) (models.Trainer, error) {
	var t models.Trainer
	err := rows.Scan(&t.TrainerID, &t.UserID, &t.Bio)
	return t, err
}

func scanCourse(rows *sql.Rows) (models.Course, error) {
	var (
		c           models.Course
		description sql.NullString
		maxCapacity sql.NullInt64
	)
	if err := rows.Scan(&c.CourseID, &c.Title, &description, &c.StartDate, &c.EndDate, &c.Price,
		&c.TotalHours, &maxCapacity, &c.TrainerID); err != nil {
		return c, err
	}
	c.Description = nullStr(description)
	c.MaxCapacity = nullInt(maxCapacity)
	c.StartDate = c.StartDate.UTC()
	c.EndDate = c.EndDate.UTC()
	return c, nil
}

func scanPayment(rows *sql.Rows) (models.Payment, error) {
	var p models.Payment
	if err := rows.Scan(&p.PaymentID, &p.TrainerID, &p.CourseID, &p.Amount, &p.PaymentDate); err != nil {
		return p, err
	}
	p.PaymentDate = p.PaymentDate.UTC()
	return p, nil
}
