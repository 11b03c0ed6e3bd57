package service

import (
	"time"

	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/spec"
)

// Bun relation names used with Spec.Include.
const (
	relTrainer  = "Trainer"
	relCourse   = "Course"
	relUser     = "User"
	relCourses  = "Courses"
	relPayments = "Payments"
)

var (
	courseIDCol    = spec.Col[models.Course, string]("course_id")
	courseTitleCol = spec.Col[models.Course, string]("title")
	courseDescCol  = spec.Col[models.Course, string]("description")
	courseStartCol = spec.Col[models.Course, time.Time]("start_date")
	courseEndCol   = spec.Col[models.Course, time.Time]("end_date")
	courseHoursCol = spec.Col[models.Course, int]("total_hours")
	coursePriceCol = spec.Col[models.Course, float64]("price")
	courseTrainer  = spec.Col[models.Course, string]("trainer_id")

	trainerIDCol   = spec.Col[models.Trainer, string]("trainer_id")
	trainerUserCol = spec.Col[models.Trainer, string]("user_id")

	paymentIDCol      = spec.Col[models.Payment, string]("payment_id")
	paymentTrainerCol = spec.Col[models.Payment, string]("trainer_id")
	paymentDateCol    = spec.Col[models.Payment, time.Time]("payment_date")

	adminIDCol   = spec.Col[models.Admin, string]("admin_id")
	adminUserCol = spec.Col[models.Admin, string]("user_id")

	userIDCol      = spec.Col[models.User, string]("id")
	userNameCol    = spec.Col[models.User, string]("username")
	userEmailCol   = spec.Col[models.User, string]("email")
	userRefreshCol = spec.Col[models.User, string]("refresh_token")
)

// courseSortKeys are the public orderBy names accepted by course search.
var courseSortKeys = spec.NewSortKeys[models.Course](courseIDCol, map[string]spec.Sortable[models.Course]{
	"title":     courseTitleCol,
	"startdate": courseStartCol,
	"enddate":   courseEndCol,
	"hours":     courseHoursCol,
	"price":     coursePriceCol,
})

func courseSearchFilter(p SearchParams) spec.Predicate[models.Course] {
	return spec.And(
		spec.ContainsFold(p.SearchTerm, courseTitleCol, courseDescCol),
		spec.AtLeast(coursePriceCol, p.MinPrice),
		spec.AtMost(coursePriceCol, p.MaxPrice),
	)
}

func courseSearchCountSpec(p SearchParams) *spec.Spec[models.Course] {
	return spec.New(courseSearchFilter(p))
}

func courseSearchSpec(p SearchParams) *spec.Spec[models.Course] {
	return spec.New(courseSearchFilter(p)).
		Include(relTrainer).
		OrderBy(courseSortKeys.Resolve(p.OrderBy), p.IsDescending).
		ThenBy(courseIDCol, p.IsDescending).
		Page((p.CurrentPage-1)*p.PageSize, p.PageSize)
}

func courseByIDSpec(id string) *spec.Spec[models.Course] {
	return spec.New(spec.Eq(courseIDCol, id)).Include(relTrainer)
}

func allCoursesSpec() *spec.Spec[models.Course] {
	return spec.New(spec.All[models.Course]()).Include(relTrainer).OrderBy(courseIDCol, false)
}

func coursesByTrainerSpec(trainerID string) *spec.Spec[models.Course] {
	return spec.New(spec.Eq(courseTrainer, trainerID)).Include(relTrainer).OrderBy(courseStartCol, false).ThenBy(courseIDCol, false)
}

func trainerByIDSpec(id string) *spec.Spec[models.Trainer] {
	return spec.New(spec.Eq(trainerIDCol, id)).Include(relUser, relCourses, relPayments)
}

func trainerByUserIDSpec(userID string) *spec.Spec[models.Trainer] {
	return spec.New(spec.Eq(trainerUserCol, userID)).Include(relUser)
}

func allTrainersSpec() *spec.Spec[models.Trainer] {
	return spec.New(spec.All[models.Trainer]()).Include(relUser).OrderBy(trainerIDCol, false)
}

func paymentByIDSpec(id string) *spec.Spec[models.Payment] {
	return spec.New(spec.Eq(paymentIDCol, id)).Include(relTrainer, relCourse)
}

func allPaymentsSpec() *spec.Spec[models.Payment] {
	return spec.New(spec.All[models.Payment]()).Include(relTrainer, relCourse).OrderBy(paymentDateCol, false).ThenBy(paymentIDCol, false)
}

func paymentsByTrainerSpec(trainerID string) *spec.Spec[models.Payment] {
	return spec.New(spec.Eq(paymentTrainerCol, trainerID)).Include(relTrainer, relCourse).OrderBy(paymentDateCol, false).ThenBy(paymentIDCol, false)
}

func adminByUserIDSpec(userID string) *spec.Spec[models.Admin] {
	return spec.New(spec.Eq(adminUserCol, userID)).Include(relUser)
}

func adminByIDSpec(id string) *spec.Spec[models.Admin] {
	return spec.New(spec.Eq(adminIDCol, id)).Include(relUser)
}

func userByIDSpec(id string) *spec.Spec[models.User] {
	return spec.New(spec.Eq(userIDCol, id))
}

func userByUsernameSpec(username string) *spec.Spec[models.User] {
	return spec.New(spec.Eq(userNameCol, username))
}

func userByEmailSpec(email string) *spec.Spec[models.User] {
	return spec.New(spec.Eq(userEmailCol, email))
}

func userByRefreshTokenSpec(token string) *spec.Spec[models.User] {
	return spec.New(spec.Eq(userRefreshCol, token))
}

func trainerExistsSpec(id string) *spec.Spec[models.Trainer] {
	return spec.New(spec.Eq(trainerIDCol, id))
}

func courseExistsSpec(id string) *spec.Spec[models.Course] {
	return spec.New(spec.Eq(courseIDCol, id))
}
