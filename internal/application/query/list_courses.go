package query

import (
	"context"
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// Плоский каталог курсов по названию. Limit и Offset независимы
// и необязательны: нулевой Limit означает "без ограничения".
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery содержит параметры каталога.
type ListCoursesQuery struct {
	// Limit - размер страницы (0 = без ограничения).
	Limit int

	// Offset - смещение.
	Offset int
}

// ListCoursesResult содержит страницу каталога.
type ListCoursesResult struct {
	// Courses - курсы по названию.
	Courses []CourseDTO `json:"courses"`

	// Page - окно пагинации и общий счётчик.
	Page shared.Page `json:"page"`
}

// ListCoursesHandler обрабатывает ListCoursesQuery.
type ListCoursesHandler struct {
	courseRepo course.Repository
}

// NewListCoursesHandler создаёт новый обработчик.
func NewListCoursesHandler(courseRepo course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courseRepo: courseRepo}
}

// Handle выполняет запрос каталога.
func (h *ListCoursesHandler) Handle(ctx context.Context, query ListCoursesQuery) (*ListCoursesResult, error) {
	page := shared.Pagination{Limit: query.Limit, Offset: query.Offset}.Normalize()

	courses, err := h.courseRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list_courses: %w", err)
	}

	total, err := h.courseRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_courses: %w", err)
	}

	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = toCourseDTO(c)
	}

	return &ListCoursesResult{
		Courses: dtos,
		Page: shared.Page{
			Total:    total,
			Offset:   page.Offset,
			Limit:    page.Limit,
			Returned: len(dtos),
		},
	}, nil
}
