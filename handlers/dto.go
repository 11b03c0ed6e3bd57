package handlers

import (
	"time"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

func (r registerRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type registerTrainerRequest struct {
	registerRequest
	Bio string `json:"bio" validate:"required,max=500"`
}

type registerAdminRequest struct {
	registerRequest
	Position string `json:"position" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type confirmEmailRequest struct {
	UserID string `json:"userId" validate:"required,ulid"`
	Token  string `json:"token" validate:"required"`
}

type authData struct {
	UserID                string    `json:"userId"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	Role                  string    `json:"role"`
	TrainerID             string    `json:"trainerId,omitempty"`
	AdminID               string    `json:"adminId,omitempty"`
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

type courseRequest struct {
	CourseID    string  `json:"courseId" validate:"omitempty,ulid"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	StartDate   Date    `json:"startDate" validate:"required"`
	EndDate     Date    `json:"endDate" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	TotalHours  int     `json:"totalHours" validate:"gt=0"`
	MaxCapacity *int    `json:"maxCapacity" validate:"omitempty,gt=0"`
	TrainerID   string  `json:"trainerId" validate:"required,ulid"`
}

func (r courseRequest) input() service.CourseInput {
	return service.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate.UTC(),
		EndDate:     r.EndDate.UTC(),
		Price:       r.Price,
		TotalHours:  r.TotalHours,
		MaxCapacity: r.MaxCapacity,
		TrainerID:   r.TrainerID,
	}
}

type courseData struct {
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Price       float64   `json:"price"`
	TotalHours  int       `json:"totalHours"`
	MaxCapacity *int      `json:"maxCapacity"`
	TrainerID   string    `json:"trainerId"`
}

func toCourseData(c *models.Course) courseData {
	return courseData{
		CourseID:    c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Price:       c.Price,
		TotalHours:  c.TotalHours,
		MaxCapacity: c.MaxCapacity,
		TrainerID:   c.TrainerID,
	}
}

func toCourseList(courses []models.Course) []courseData {
	result := make([]courseData, len(courses))
	for i := range courses {
		result[i] = toCourseData(&courses[i])
	}
	return result
}

type searchRequest struct {
	SearchTerm   string   `json:"searchTerm" validate:"max=200"`
	MinPrice     *float64 `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"maxPrice" validate:"omitempty,gte=0"`
	OrderBy      string   `json:"orderBy"`
	IsDescending bool     `json:"isDescending"`
	CurrentPage  int      `json:"currentPage" validate:"gte=1"`
	PageSize     int      `json:"pageSize" validate:"gte=1,lte=100"`
}

func (r searchRequest) params() service.SearchParams {
	return service.SearchParams{
		SearchTerm:   r.SearchTerm,
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		OrderBy:      r.OrderBy,
		IsDescending: r.IsDescending,
		CurrentPage:  r.CurrentPage,
		PageSize:     r.PageSize,
	}
}

type trainerRequest struct {
	TrainerID string `json:"trainerId" validate:"required,ulid"`
	Bio       string `json:"bio" validate:"required,max=500"`
}

type trainerData struct {
	TrainerID string `json:"trainerId"`
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
}

func toTrainerData(t *models.Trainer) trainerData {
	d := trainerData{TrainerID: t.TrainerID, UserID: t.UserID, Bio: t.Bio}
	if t.User != nil {
		d.FirstName = t.User.FirstName
		d.LastName = t.User.LastName
		d.Email = t.User.Email
	}
	return d
}

func toTrainerList(trainers []models.Trainer) []trainerData {
	result := make([]trainerData, len(trainers))
	for i := range trainers {
		result[i] = toTrainerData(&trainers[i])
	}
	return result
}

type adminData struct {
	AdminID   string `json:"adminId"`
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Position  string `json:"position"`
}

func toAdminData(a *models.Admin) adminData {
	d := adminData{AdminID: a.AdminID, UserID: a.UserID, Position: a.Position}
	if a.User != nil {
		d.FirstName = a.User.FirstName
		d.LastName = a.User.LastName
		d.Email = a.User.Email
	}
	return d
}

type paymentRequest struct {
	PaymentID   string  `json:"paymentId" validate:"omitempty,ulid"`
	TrainerID   string  `json:"trainerId" validate:"required,ulid"`
	CourseID    string  `json:"courseId" validate:"required,ulid"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	PaymentDate Date    `json:"paymentDate" validate:"required"`
}

func (r paymentRequest) input() service.PaymentInput {
	return service.PaymentInput{
		TrainerID:   r.TrainerID,
		CourseID:    r.CourseID,
		Amount:      r.Amount,
		PaymentDate: r.PaymentDate.UTC(),
	}
}

type paymentData struct {
	PaymentID   string    `json:"paymentId"`
	TrainerID   string    `json:"trainerId"`
	CourseID    string    `json:"courseId"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"paymentDate"`
}

func toPaymentData(p *models.Payment) paymentData {
	return paymentData{
		PaymentID:   p.PaymentID,
		TrainerID:   p.TrainerID,
		CourseID:    p.CourseID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
	}
}

func toPaymentList(payments []models.Payment) []paymentData {
	result := make([]paymentData, len(payments))
	for i := range payments {
		result[i] = toPaymentData(&payments[i])
	}
	return result
}
