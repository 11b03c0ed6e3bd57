package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/courseapi/middleware"
	"github.com/padraicbc/courseapi/service"
)

// GetCourse returns a single course.
func (h *Handler) GetCourse(c echo.Context) error {
	course, err := h.courses.GetByID(c.Request().Context(), c.Param("courseId"))
	if err != nil {
		return h.fail(c, err, "course")
	}
	return respond(c, http.StatusOK, "Course retrieved successfully", toCourseData(course))
}

// GetAllCourses returns every course ordered by id.
func (h *Handler) GetAllCourses(c echo.Context) error {
	courses, err := h.courses.GetAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "course")
	}
	return respond(c, http.StatusOK, "Courses retrieved successfully", toCourseList(courses))
}

// SearchCourses filters by searchTerm and price range, orders by orderBy and pages the result.
func (h *Handler) SearchCourses(c echo.Context) error {
	req := searchRequest{CurrentPage: 1, PageSize: 10}
	var minPrice, maxPrice float64
	errs := echo.QueryParamsBinder(c).
		FailFast(false).
		String("searchTerm", &req.SearchTerm).
		Float64("minPrice", &minPrice).
		Float64("maxPrice", &maxPrice).
		String("orderBy", &req.OrderBy).
		Bool("isDescending", &req.IsDescending).
		Int("currentPage", &req.CurrentPage).
		Int("pageSize", &req.PageSize).
		BindErrors()
	if len(errs) > 0 {
		return h.fail(c, &service.ValidationError{Messages: queryMessages(errs)}, "course")
	}
	if c.QueryParam("minPrice") != "" {
		req.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		req.MaxPrice = &maxPrice
	}
	if err := c.Validate(&req); err != nil {
		return h.fail(c, err, "course")
	}

	page, err := h.courses.Search(c.Request().Context(), req.params())
	if err != nil {
		return h.fail(c, err, "course")
	}
	return respondPage(c, "Search results retrieved successfully", page, toCourseList)
}

// CreateCourse adds a course. Trainers may only create courses for themselves.
func (h *Handler) CreateCourse(c echo.Context) error {
	var req courseRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "course")
	}
	if err := mw.CheckTrainerAccess(c, h.policy, req.TrainerID, h.log); err != nil {
		return err
	}

	course, err := h.courses.Create(c.Request().Context(), req.input())
	if err != nil {
		return h.fail(c, err, "course")
	}
	return respond(c, http.StatusCreated, "Course created successfully", toCourseData(course))
}

// UpdateCourse replaces a course. Trainers may only touch their own courses and may
// not hand a course to another trainer.
func (h *Handler) UpdateCourse(c echo.Context) error {
	courseID := c.Param("courseId")
	var req courseRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err, "course")
	}
	if req.CourseID != courseID {
		return echo.NewHTTPError(http.StatusBadRequest, "course id mismatch")
	}

	ctx := c.Request().Context()
	current, err := h.courses.GetByID(ctx, courseID)
	if err != nil {
		return h.fail(c, err, "course")
	}
	if err := mw.CheckTrainerAccess(c, h.policy, current.TrainerID, h.log); err != nil {
		return err
	}
	if req.TrainerID != current.TrainerID {
		if err := mw.CheckTrainerAccess(c, h.policy, req.TrainerID, h.log); err != nil {
			return err
		}
	}

	course, err := h.courses.Update(ctx, courseID, req.input())
	if err != nil {
		return h.fail(c, err, "course")
	}
	return respond(c, http.StatusOK, "Course updated successfully", toCourseData(course))
}

// DeleteCourse removes a course. Deleting an absent course succeeds with data false.
func (h *Handler) DeleteCourse(c echo.Context) error {
	deleted, err := h.courses.Delete(c.Request().Context(), c.Param("courseId"))
	if err != nil {
		return h.fail(c, err, "course")
	}
	if !deleted {
		return respond(c, http.StatusOK, "Course not found, nothing deleted", false)
	}
	return respond(c, http.StatusOK, "Course deleted successfully", true)
}
