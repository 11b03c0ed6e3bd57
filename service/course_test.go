package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/courseapi/models"
)

func TestCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)

	created := f.course(t, tr.TrainerID, "Intro", 100)
	assert.True(t, models.ValidID(created.CourseID))

	got, err := f.courses.GetByID(ctx, created.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Title)
	assert.True(t, got.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, got.EndDate.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.0, got.Price)
	assert.Equal(t, 10, got.TotalHours)
	assert.Equal(t, tr.TrainerID, got.TrainerID)
	require.NotNil(t, got.Trainer)
	assert.Equal(t, tr.TrainerID, got.Trainer.TrainerID)

	deleted, err := f.courses.Delete(ctx, created.CourseID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.courses.GetByID(ctx, created.CourseID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseCreateRequiresTrainer(t *testing.T) {
	f := newFixture(t)

	_, err := f.courses.Create(context.Background(), courseInput(models.NewID(), "Orphan", 10))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), err)
	assert.Contains(t, verr.Messages[0], "Trainer ID")
	assert.Zero(t, f.count(t, (*models.Course)(nil)))
}

func TestCourseUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	c := f.course(t, tr.TrainerID, "Old", 10)

	in := courseInput(tr.TrainerID, "New", 20)
	in.Description = ptr("now with notes")
	in.MaxCapacity = ptr(12)
	updated, err := f.courses.Update(ctx, c.CourseID, in)
	require.NoError(t, err)
	assert.Equal(t, c.CourseID, updated.CourseID)

	got, err := f.courses.GetByID(ctx, c.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 20.0, got.Price)
	require.NotNil(t, got.Description)
	assert.Equal(t, "now with notes", *got.Description)
	require.NotNil(t, got.MaxCapacity)
	assert.Equal(t, 12, *got.MaxCapacity)
}

func TestCourseUpdateMissingDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	f.course(t, tr.TrainerID, "Keep", 10)

	_, err := f.courses.Update(ctx, models.NewID(), courseInput(tr.TrainerID, "Ghost", 1))
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := f.courses.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Keep", all[0].Title)
}

func TestCourseDeleteMissingIsNoop(t *testing.T) {
	f := newFixture(t)
	tr := f.trainer(t)
	f.course(t, tr.TrainerID, "Keep", 10)

	deleted, err := f.courses.Delete(context.Background(), models.NewID())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, f.count(t, (*models.Course)(nil)))
}

func TestSearchDefaultsToIDOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)

	var ids []string
	for i := 0; i < 15; i++ {
		// titles sort in the opposite direction to ids
		ids = append(ids, f.course(t, tr.TrainerID, fmt.Sprintf("Course %02d", 15-i), float64(i*10)).CourseID)
	}

	page, err := f.courses.Search(ctx, SearchParams{CurrentPage: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	for i, c := range page.Items {
		assert.Equal(t, ids[i], c.CourseID)
	}
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)

	page, err = f.courses.Search(ctx, SearchParams{CurrentPage: 2, PageSize: 10, OrderBy: "unknown"})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, ids[10], page.Items[0].CourseID)
}

func TestSearchTotalsComeFromUnpagedCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	for i := 0; i < 7; i++ {
		f.course(t, tr.TrainerID, fmt.Sprintf("Go %d", i), float64(100+i))
	}
	f.course(t, tr.TrainerID, "Rust", 500)

	for _, size := range []int{1, 2, 3, 7, 8, 100} {
		page, err := f.courses.Search(ctx, SearchParams{SearchTerm: "go", CurrentPage: 1, PageSize: size})
		require.NoError(t, err)
		assert.Equal(t, 7, page.TotalCount, "size %d", size)
		assert.Equal(t, (7+size-1)/size, page.TotalPages, "size %d", size)
		assert.LessOrEqual(t, len(page.Items), size)
	}
}

func TestSearchFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	f.course(t, tr.TrainerID, "Cheap Go", 20)
	f.course(t, tr.TrainerID, "Mid Go", 80)
	f.course(t, tr.TrainerID, "Pricey Go", 300)
	f.course(t, tr.TrainerID, "Mid Python", 90)

	page, err := f.courses.Search(ctx, SearchParams{
		SearchTerm:   "GO",
		MinPrice:     ptr(50.0),
		OrderBy:      "price",
		IsDescending: true,
		CurrentPage:  1,
		PageSize:     10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Pricey Go", page.Items[0].Title)
	assert.Equal(t, "Mid Go", page.Items[1].Title)
	assert.NotNil(t, page.Items[0].Trainer)

	page, err = f.courses.Search(ctx, SearchParams{MaxPrice: ptr(85.0), OrderBy: "Title", CurrentPage: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Cheap Go", page.Items[0].Title)
	assert.Equal(t, "Mid Go", page.Items[1].Title)
}

func TestSearchPagesEqualPricesByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.trainer(t)
	var ids []string
	for i := 0; i < 7; i++ {
		ids = append(ids, f.course(t, tr.TrainerID, fmt.Sprintf("Same %d", i), 50).CourseID)
	}
	sort.Strings(ids)

	for _, desc := range []bool{false, true} {
		var got []string
		for pg := 1; pg <= 4; pg++ {
			page, err := f.courses.Search(ctx, SearchParams{OrderBy: "price", IsDescending: desc, CurrentPage: pg, PageSize: 2})
			require.NoError(t, err)
			for _, c := range page.Items {
				got = append(got, c.CourseID)
			}
		}
		want := append([]string(nil), ids...)
		if desc {
			sort.Sort(sort.Reverse(sort.StringSlice(want)))
		}
		assert.Equal(t, want, got, "descending %v", desc)
	}
}

func TestSearchRejectsInvertedPriceBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.courses.Search(context.Background(), SearchParams{
		MinPrice:    ptr(100.0),
		MaxPrice:    ptr(50.0),
		CurrentPage: 1,
		PageSize:    10,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), err)
	assert.Contains(t, verr.Messages, "Maximum price must be greater than or equal to minimum price.")
}

func TestSearchRejectsBadPaging(t *testing.T) {
	f := newFixture(t)

	for _, p := range []SearchParams{
		{CurrentPage: 0, PageSize: 10},
		{CurrentPage: 1, PageSize: 0},
		{CurrentPage: 1, PageSize: 101},
		{CurrentPage: math.MaxInt, PageSize: 10},
	} {
		_, err := f.courses.Search(context.Background(), p)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "%+v", p)
	}
}

func TestSearchCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.courses.Search(ctx, SearchParams{CurrentPage: 1, PageSize: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
