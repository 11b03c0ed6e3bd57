// Package service holds the domain operations for trainers, courses, payments and accounts.
// Every write runs in its own unit of work and commits once.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/repository"
)

// SearchParams filters, orders and pages a course search. CurrentPage is 1-based.
type SearchParams struct {
	SearchTerm   string
	MinPrice     *float64
	MaxPrice     *float64
	OrderBy      string
	IsDescending bool
	CurrentPage  int
	PageSize     int
}

func (p SearchParams) validate() error {
	var msgs []string
	if p.MinPrice != nil && *p.MinPrice < 0 {
		msgs = append(msgs, "Minimum price must be greater than or equal to 0.")
	}
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		msgs = append(msgs, "Maximum price must be greater than or equal to 0.")
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MaxPrice < *p.MinPrice {
		msgs = append(msgs, "Maximum price must be greater than or equal to minimum price.")
	}
	if p.CurrentPage < 1 {
		msgs = append(msgs, "Current page must be greater than 0.")
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		msgs = append(msgs, "Page size must be between 1 and 100.")
	} else if p.CurrentPage-1 > math.MaxInt/p.PageSize {
		msgs = append(msgs, "Current page is too large.")
	}
	if len(msgs) > 0 {
		return invalid(msgs...)
	}
	return nil
}

// CourseInput is the writable part of a course.
type CourseInput struct {
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Price       float64
	TotalHours  int
	MaxCapacity *int
	TrainerID   string
}

func (in CourseInput) applyTo(c *models.Course) {
	c.Title = in.Title
	c.Description = in.Description
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.Price = in.Price
	c.TotalHours = in.TotalHours
	c.MaxCapacity = in.MaxCapacity
	c.TrainerID = in.TrainerID
}

// CourseService manages courses.
type CourseService struct {
	db  *bun.DB
	log *zap.Logger
}

// NewCourseService returns a CourseService using db.
func NewCourseService(db *bun.DB, log *zap.Logger) *CourseService {
	return &CourseService{db: db, log: log.Named("courses")}
}

func (s *CourseService) courses() (*repository.UnitOfWork, *repository.Repository[models.Course]) {
	uow := repository.NewUnitOfWork(s.db)
	return uow, repository.For[models.Course](uow)
}

// GetByID returns the course with its trainer, or ErrNotFound.
func (s *CourseService) GetByID(ctx context.Context, courseID string) (*models.Course, error) {
	s.log.Debug("get course", zap.String("course_id", courseID))
	_, repo := s.courses()
	c, err := repo.First(ctx, courseByIDSpec(courseID))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// GetAll returns every course ordered by id.
func (s *CourseService) GetAll(ctx context.Context) ([]models.Course, error) {
	s.log.Debug("get all courses")
	_, repo := s.courses()
	return repo.List(ctx, allCoursesSpec())
}

// Search returns one page of matching courses. The total is counted by a separate,
// unpaged query over the same filter; the two reads are not taken from one snapshot.
func (s *CourseService) Search(ctx context.Context, p SearchParams) (*Page[models.Course], error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	s.log.Info("search courses",
		zap.String("search_term", p.SearchTerm),
		zap.Float64p("min_price", p.MinPrice),
		zap.Float64p("max_price", p.MaxPrice),
		zap.String("order_by", p.OrderBy),
		zap.Bool("descending", p.IsDescending),
		zap.Int("page", p.CurrentPage),
		zap.Int("page_size", p.PageSize),
	)

	_, repo := s.courses()
	total, err := repo.Count(ctx, courseSearchCountSpec(p))
	if err != nil {
		return nil, err
	}
	items, err := repo.List(ctx, courseSearchSpec(p))
	if err != nil {
		return nil, err
	}

	s.log.Info("found courses", zap.Int("count", len(items)), zap.Int("total", total))
	return newPage(items, p.CurrentPage, p.PageSize, total), nil
}

// Create inserts a new course for an existing trainer and returns it with its generated id.
func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	s.log.Info("create course", zap.String("title", in.Title), zap.String("trainer_id", in.TrainerID))
	if err := s.requireTrainer(ctx, in.TrainerID); err != nil {
		return nil, err
	}

	c := &models.Course{CourseID: models.NewID()}
	in.applyTo(c)

	uow, repo := s.courses()
	if err := repo.Add(ctx, c); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("course created", zap.String("course_id", c.CourseID))
	return c, nil
}

// Update merges in into the stored course. It returns ErrNotFound without writing
// anything when the course does not exist.
func (s *CourseService) Update(ctx context.Context, courseID string, in CourseInput) (*models.Course, error) {
	s.log.Info("update course", zap.String("course_id", courseID))
	c, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if in.TrainerID != c.TrainerID {
		if err := s.requireTrainer(ctx, in.TrainerID); err != nil {
			return nil, err
		}
		c.Trainer = nil
	}
	in.applyTo(c)

	uow, repo := s.courses()
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.log.Info("course updated", zap.String("course_id", courseID))
	return c, nil
}

// Delete removes the course. It reports false, with no error, when there was nothing to delete.
func (s *CourseService) Delete(ctx context.Context, courseID string) (bool, error) {
	s.log.Info("delete course", zap.String("course_id", courseID))
	c, err := s.GetByID(ctx, courseID)
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("attempted to delete non-existent course", zap.String("course_id", courseID))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	uow, repo := s.courses()
	if err := repo.Delete(ctx, c); err != nil {
		return false, err
	}
	if err := uow.Commit(ctx); err != nil {
		return deleteFailed(s.log, err, zap.String("course_id", courseID))
	}
	s.log.Info("course deleted", zap.String("course_id", courseID))
	return true, nil
}

func (s *CourseService) requireTrainer(ctx context.Context, trainerID string) error {
	uow := repository.NewUnitOfWork(s.db)
	n, err := repository.For[models.Trainer](uow).Count(ctx, trainerExistsSpec(trainerID))
	if err != nil {
		return err
	}
	if n == 0 {
		return invalid("Trainer ID does not reference an existing trainer.")
	}
	return nil
}
