package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/journey"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET JOURNEY QUERY
// Learning journey вместе с курсами в порядке позиций.
// ══════════════════════════════════════════════════════════════════════════════

// GetJourneyQuery содержит параметры запроса.
type GetJourneyQuery struct {
	// JourneyID - идентификатор journey.
	JourneyID string
}

// JourneyCourseDTO - курс внутри journey.
type JourneyCourseDTO struct {
	// Position - порядковый номер курса, начиная с 1.
	Position int `json:"position"`

	// Course - данные курса.
	Course CourseDTO `json:"course"`
}

// GetJourneyResult содержит journey с курсами.
type GetJourneyResult struct {
	// JourneyID - идентификатор journey.
	JourneyID string `json:"journey_id"`

	// Title - название.
	Title string `json:"title"`

	// Description - описание.
	Description string `json:"description"`

	// OwnerID - владелец.
	OwnerID string `json:"owner_id"`

	// Courses - курсы в порядке позиций.
	Courses []JourneyCourseDTO `json:"courses"`

	// CreatedAt - время создания journey.
	CreatedAt time.Time `json:"created_at"`
}

// GetJourneyHandler обрабатывает GetJourneyQuery.
type GetJourneyHandler struct {
	journeyRepo journey.Repository
	courseRepo  course.Repository
}

// NewGetJourneyHandler создаёт новый обработчик.
func NewGetJourneyHandler(journeyRepo journey.Repository, courseRepo course.Repository) *GetJourneyHandler {
	return &GetJourneyHandler{
		journeyRepo: journeyRepo,
		courseRepo:  courseRepo,
	}
}

// Handle выполняет запрос journey.
func (h *GetJourneyHandler) Handle(ctx context.Context, query GetJourneyQuery) (*GetJourneyResult, error) {
	journeyID, err := shared.ParseID(query.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("get_journey: %w", err)
	}

	j, err := h.journeyRepo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("get_journey: %w", err)
	}

	entries, err := h.journeyRepo.ListCourses(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("get_journey: %w", err)
	}

	courses := make([]JourneyCourseDTO, 0, len(entries))
	for _, e := range entries {
		c, err := h.courseRepo.GetByID(ctx, e.CourseID)
		if err != nil {
			// Курс мог исчезнуть между чтениями; запись пропускается.
			if shared.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("get_journey: %w", err)
		}
		courses = append(courses, JourneyCourseDTO{
			Position: e.Position,
			Course:   toCourseDTO(c),
		})
	}

	return &GetJourneyResult{
		JourneyID:   j.ID.String(),
		Title:       j.Title,
		Description: j.Description,
		OwnerID:     j.UserID.String(),
		Courses:     courses,
		CreatedAt:   j.CreatedAt,
	}, nil
}
